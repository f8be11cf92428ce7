package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roadwatch/trafficdash/internal/fsutil"
)

func TestVehicleImagesNewestFirst(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	s, err := New(fs, "data")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	for _, name := range []string{
		"car_1700000001000.jpg",
		"car_1700000003000.jpg",
		"car_1700000002000.jpg",
		"license_plate_1700000005000.jpg",
		"speed_data.json",
		"car_notes.txt",
	} {
		if err := fs.WriteFile("data/"+name, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error: %v", name, err)
		}
	}

	images, err := s.VehicleImages()
	if err != nil {
		t.Fatalf("VehicleImages() error: %v", err)
	}

	want := []Image{
		{Name: "car_1700000003000.jpg", URL: "/api/images/car_1700000003000.jpg"},
		{Name: "car_1700000002000.jpg", URL: "/api/images/car_1700000002000.jpg"},
		{Name: "car_1700000001000.jpg", URL: "/api/images/car_1700000001000.jpg"},
	}
	if diff := cmp.Diff(want, images); diff != "" {
		t.Errorf("vehicle images mismatch (-want +got):\n%s", diff)
	}
}

func TestLicensePlateImages(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	s, err := New(fs, "data")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	for _, name := range []string{
		"license_plate_1700000005000.jpg",
		"license_plate_extra.jpg", // non-numeric suffix sorts last
		"car_1700000001000.jpg",
	} {
		if err := fs.WriteFile("data/"+name, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error: %v", name, err)
		}
	}

	images, err := s.LicensePlateImages()
	if err != nil {
		t.Fatalf("LicensePlateImages() error: %v", err)
	}

	if len(images) != 2 {
		t.Fatalf("len(images) = %d, want 2", len(images))
	}
	if images[0].Name != "license_plate_1700000005000.jpg" {
		t.Errorf("images[0] = %s, want numeric-stamped frame first", images[0].Name)
	}
	if images[1].Name != "license_plate_extra.jpg" {
		t.Errorf("images[1] = %s, want non-numeric frame last", images[1].Name)
	}
}

func TestImagesEmptyDirectory(t *testing.T) {
	s, err := New(fsutil.NewMemoryFileSystem(), "data")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	images, err := s.VehicleImages()
	if err != nil {
		t.Fatalf("VehicleImages() error: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("len(images) = %d, want 0", len(images))
	}
}
