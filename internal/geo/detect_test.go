package geo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smokyabdulrahman/prayer-times/internal/astro"
)

func TestDetectLocation_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ipAPIResponse{
			Status:   "success",
			Lat:      51.5074,
			Lon:      -0.1278,
			City:     "London",
			Country:  "United Kingdom",
			Timezone: "Europe/London",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	// Override the package-level URL for testing.
	origURL := geoAPIURL
	geoAPIURL = server.URL
	defer func() { geoAPIURL = origURL }()

	loc, err := DetectLocation(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Latitude != 51.5074 {
		t.Errorf("Latitude = %v, want %v", loc.Latitude, 51.5074)
	}
	if loc.Longitude != -0.1278 {
		t.Errorf("Longitude = %v, want %v", loc.Longitude, -0.1278)
	}
	if loc.City != "London" {
		t.Errorf("City = %q, want %q", loc.City, "London")
	}
	if loc.Country != "United Kingdom" {
		t.Errorf("Country = %q, want %q", loc.Country, "United Kingdom")
	}
	if loc.Timezone != "Europe/London" {
		t.Errorf("Timezone = %q, want %q", loc.Timezone, "Europe/London")
	}
}

func TestDetectLocation_APIFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ipAPIResponse{
			Status:  "fail",
			Message: "reserved range",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	origURL := geoAPIURL
	geoAPIURL = server.URL
	defer func() { geoAPIURL = origURL }()

	_, err := DetectLocation(context.Background())
	if err == nil {
		t.Fatal("expected error for failed status, got nil")
	}
	if !strings.Contains(err.Error(), "reserved range") {
		t.Errorf("error should contain message, got: %v", err)
	}
}

func TestDetectLocation_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	origURL := geoAPIURL
	geoAPIURL = server.URL
	defer func() { geoAPIURL = origURL }()

	_, err := DetectLocation(context.Background())
	if err == nil {
		t.Fatal("expected error for HTTP 500, got nil")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should mention 500, got: %v", err)
	}
}

func TestDetectLocation_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	origURL := geoAPIURL
	geoAPIURL = server.URL
	defer func() { geoAPIURL = origURL }()

	_, err := DetectLocation(context.Background())
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("error should mention decode, got: %v", err)
	}
}

func TestDetectLocation_ConnectionRefused(t *testing.T) {
	origURL := geoAPIURL
	geoAPIURL = "http://127.0.0.1:1" // nothing listening
	defer func() { geoAPIURL = origURL }()

	_, err := DetectLocation(context.Background())
	if err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}

func TestDetectLocation_OutOfRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ipAPIResponse{Status: "success", Lat: 123, Lon: 10})
	}))
	defer server.Close()

	origURL := geoAPIURL
	geoAPIURL = server.URL
	defer func() { geoAPIURL = origURL }()

	_, err := DetectLocation(context.Background())
	if !errors.Is(err, astro.ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestDetectLocation_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ipAPIResponse{Status: "success", Lat: 1, Lon: 1})
	}))
	defer server.Close()

	origURL := geoAPIURL
	geoAPIURL = server.URL
	defer func() { geoAPIURL = origURL }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := DetectLocation(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLocation_Label(t *testing.T) {
	full := Location{Latitude: 21.4225, Longitude: 39.8262, City: "Mecca", Country: "Saudi Arabia"}
	if got := full.Label(); got != "Mecca, Saudi Arabia" {
		t.Errorf("Label() = %q", got)
	}

	bare := Location{Latitude: 21.4225, Longitude: 39.8262}
	if got := bare.Label(); got != "21.4225, 39.8262" {
		t.Errorf("Label() = %q, want coordinates", got)
	}
}

func TestLocation_Coordinates(t *testing.T) {
	loc := Location{Latitude: -33.87, Longitude: 151.21}
	c := loc.Coordinates()
	if c.Latitude != -33.87 || c.Longitude != 151.21 {
		t.Errorf("Coordinates() = %+v", c)
	}
}
