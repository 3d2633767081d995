// Package units converts between the canonical storage units (miles,
// gallons) and the display units a user can select.
package units

// Conversion factors. Every conversion is a single multiplication or division
// by one of these.
const (
	KmPerMile       = 1.60934
	LitersPerGallon = 3.78541
	KplPerMpg       = 0.425144
)

// Distance is a display distance unit.
type Distance string

// Volume is a display volume unit.
type Volume string

const (
	Miles      Distance = "miles"
	Kilometers Distance = "kilometers"

	Gallons Volume = "gallons"
	Liters  Volume = "liters"
)

// Valid reports whether d is a known distance unit.
func (d Distance) Valid() bool { return d == Miles || d == Kilometers }

// Valid reports whether v is a known volume unit.
func (v Volume) Valid() bool { return v == Gallons || v == Liters }

// Abbrev returns the short label used next to distance values.
func (d Distance) Abbrev() string {
	if d == Kilometers {
		return "km"
	}
	return "mi"
}

// Abbrev returns the short label used next to volume values.
func (v Volume) Abbrev() string {
	if v == Liters {
		return "L"
	}
	return "gal"
}

func MilesToKm(mi float64) float64         { return mi * KmPerMile }
func KmToMiles(km float64) float64         { return km / KmPerMile }
func GallonsToLiters(gal float64) float64  { return gal * LitersPerGallon }
func LitersToGallons(l float64) float64    { return l / LitersPerGallon }
func MpgToKpl(mpg float64) float64         { return mpg * KplPerMpg }
func KplToMpg(kpl float64) float64         { return kpl / KplPerMpg }
func MpgToKmPerGallon(mpg float64) float64 { return mpg * KmPerMile }
func MpgToMilesPerLiter(mpg float64) float64 {
	return mpg / LitersPerGallon
}

// DistanceToDisplay converts canonical miles into unit d.
func DistanceToDisplay(miles float64, d Distance) float64 {
	if d == Kilometers {
		return MilesToKm(miles)
	}
	return miles
}

// DistanceFromDisplay converts a value entered in unit d back to miles.
func DistanceFromDisplay(value float64, d Distance) float64 {
	if d == Kilometers {
		return KmToMiles(value)
	}
	return value
}

// VolumeToDisplay converts canonical gallons into unit v.
func VolumeToDisplay(gallons float64, v Volume) float64 {
	if v == Liters {
		return GallonsToLiters(gallons)
	}
	return gallons
}

// VolumeFromDisplay converts a value entered in unit v back to gallons.
func VolumeFromDisplay(value float64, v Volume) float64 {
	if v == Liters {
		return LitersToGallons(value)
	}
	return value
}

// PriceToDisplay converts a price per gallon into a price per unit v.
func PriceToDisplay(perGallon float64, v Volume) float64 {
	if v == Liters {
		return perGallon / LitersPerGallon
	}
	return perGallon
}

// PriceFromDisplay converts a price per unit v back to a price per gallon.
func PriceFromDisplay(perUnit float64, v Volume) float64 {
	if v == Liters {
		return perUnit * LitersPerGallon
	}
	return perUnit
}

// EfficiencyToDisplay converts MPG into the economy unit implied by the
// (distance, volume) pair.
func EfficiencyToDisplay(mpg float64, d Distance, v Volume) float64 {
	switch {
	case d == Kilometers && v == Liters:
		return MpgToKpl(mpg)
	case d == Kilometers:
		return MpgToKmPerGallon(mpg)
	case v == Liters:
		return MpgToMilesPerLiter(mpg)
	default:
		return mpg
	}
}

// EfficiencyLabel names the economy unit for the (distance, volume) pair.
func EfficiencyLabel(d Distance, v Volume) string {
	switch {
	case d == Kilometers && v == Liters:
		return "km/L"
	case d == Kilometers:
		return "km/gal"
	case v == Liters:
		return "mi/L"
	default:
		return "MPG"
	}
}
