package bmr

import (
	"github.com/2beens/fitjournal/pkg"
)

const (
	SexMale   = "M"
	SexHomem  = "H"
	SexFemale = "F"
)

// Input holds the body measurements. Sex is M or H for male, F for female.
type Input struct {
	WeightKg float64 `json:"weight_kg" validate:"required,gte=5,lte=999"`
	Age      int     `json:"age" validate:"required,gte=1,lte=105"`
	Sex      string  `json:"sex" validate:"required,oneof=M H F"`
	HeightCm float64 `json:"height_cm" validate:"required,gte=30,lte=300"`
}

type Result struct {
	Input
	BMR float64 `json:"bmr"`
}

// Calculate validates all inputs and returns the Harris-Benedict basal metabolic rate
// in kcal/day. Invalid input yields a *pkg.ValidationError.
func Calculate(in Input) (float64, error) {
	if err := pkg.Validate(in); err != nil {
		return 0, err
	}

	w, h, a := in.WeightKg, in.HeightCm, float64(in.Age)
	if in.Sex == SexFemale {
		return 447.6 + 9.2*w + 3.1*h - 4.3*a, nil
	}
	return 88.36 + 13.4*w + 4.8*h - 5.7*a, nil
}
