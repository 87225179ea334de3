package analysis

import (
	"github.com/san-kum/parcelsim/internal/dynamo"
	"github.com/san-kum/parcelsim/internal/parcel"
)

// Profile is the time series of one state-vector column.
type Profile struct {
	Index  int
	Times  []float64
	Values []float64
}

// ExtractProfile pulls column idx out of a result. Returns nil when the
// index is out of range for the recorded states.
func ExtractProfile(result *dynamo.Result, idx int) *Profile {
	if len(result.States) == 0 || idx < 0 || idx >= len(result.States[0]) {
		return nil
	}

	p := &Profile{
		Index:  idx,
		Times:  make([]float64, len(result.States)),
		Values: make([]float64, len(result.States)),
	}
	copy(p.Times, result.Times)
	for i, x := range result.States {
		p.Values[i] = x[idx]
	}
	return p
}

// SupersaturationProfile is the S(t) column, the curve whose peak
// decides activation.
func SupersaturationProfile(result *dynamo.Result) *Profile {
	return ExtractProfile(result, parcel.IdxSupersaturation)
}

// RadiusProfile is the wet-radius trajectory of particle i.
func RadiusProfile(result *dynamo.Result, i int) *Profile {
	return ExtractProfile(result, parcel.NumScalars+i)
}

// MeanRadiusProfile is the number-weighted mean wet radius over time.
func MeanRadiusProfile(result *dynamo.Result, pop parcel.Population) *Profile {
	if len(result.States) == 0 || pop.Len() == 0 {
		return nil
	}

	totalN := 0.0
	for _, n := range pop.Number {
		totalN += n
	}
	if totalN == 0 {
		return nil
	}

	p := &Profile{
		Index:  -1,
		Times:  make([]float64, len(result.States)),
		Values: make([]float64, len(result.States)),
	}
	copy(p.Times, result.Times)

	for i, x := range result.States {
		sum := 0.0
		for j := 0; j < pop.Len(); j++ {
			sum += pop.Number[j] * x[parcel.NumScalars+j]
		}
		p.Values[i] = sum / totalN
	}
	return p
}
