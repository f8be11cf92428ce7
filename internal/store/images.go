package store

import (
	"sort"
	"strconv"
	"strings"
)

// Image prefixes used by the capture pipeline when writing frames to the
// data directory.
const (
	vehicleImagePrefix = "car_"
	plateImagePrefix   = "license_plate_"
	imageSuffix        = ".jpg"
)

// Image is one captured frame in the data directory.
type Image struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// VehicleImages lists the full-frame vehicle captures, newest first.
func (s *Store) VehicleImages() ([]Image, error) {
	return s.listImages(vehicleImagePrefix)
}

// LicensePlateImages lists the plate crops, newest first.
func (s *Store) LicensePlateImages() ([]Image, error) {
	return s.listImages(plateImagePrefix)
}

func (s *Store) listImages(prefix string) ([]Image, error) {
	names, err := s.fs.ReadDirNames(s.dir)
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, imageSuffix) {
			matched = append(matched, name)
		}
	}

	// The pipeline names frames <prefix><unix-millis>.jpg, so newest first
	// means descending by the numeric suffix. Non-numeric suffixes sort
	// after the numeric ones, descending lexically.
	sort.Slice(matched, func(i, j int) bool {
		a, aok := imageTimestamp(matched[i], prefix)
		b, bok := imageTimestamp(matched[j], prefix)
		switch {
		case aok && bok:
			return a > b
		case aok != bok:
			return aok
		default:
			return matched[i] > matched[j]
		}
	})

	images := make([]Image, len(matched))
	for i, name := range matched {
		images[i] = Image{Name: name, URL: "/api/images/" + name}
	}
	return images, nil
}

func imageTimestamp(name, prefix string) (int64, bool) {
	raw := strings.TrimSuffix(strings.TrimPrefix(name, prefix), imageSuffix)
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return ts, true
}
