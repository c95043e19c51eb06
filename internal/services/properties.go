package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
)

// AllProperties lists every property.
func (c *Client) AllProperties(ctx context.Context) ([]models.Accommodation, error) {
	return c.accommodationList(ctx, request{method: http.MethodGet, path: "/properties/all"})
}

// AvailableProperties lists properties currently open for booking.
func (c *Client) AvailableProperties(ctx context.Context) ([]models.Accommodation, error) {
	return c.accommodationList(ctx, request{method: http.MethodGet, path: "/properties/all-available-properties"})
}

// AvailableByDateAndType lists properties free between checkIn and checkOut (yyyy-MM-dd) of the given types.
func (c *Client) AvailableByDateAndType(ctx context.Context, checkIn, checkOut string, types []string) ([]models.Accommodation, error) {
	q := url.Values{}
	if checkIn != "" {
		q.Set("checkInDate", checkIn)
	}
	if checkOut != "" {
		q.Set("checkOutDate", checkOut)
	}
	for _, t := range types {
		q.Add("roomType", t)
	}

	return c.accommodationList(ctx, request{method: http.MethodGet, path: "/properties/available-properties-by-date-and-type", query: q})
}

// PropertyTypes lists the property types known to the API. The endpoint returns a bare array.
func (c *Client) PropertyTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.decode(ctx, request{method: http.MethodGet, path: "/properties/types"}, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// Property fetches one property.
func (c *Client) Property(ctx context.Context, id int64) (*models.Accommodation, error) {
	env, err := c.envelope(ctx, request{method: http.MethodGet, path: idPath("/properties/property-by-id/%s", id)})
	if err != nil {
		return nil, err
	}
	if env.Accommodation == nil {
		return nil, fmt.Errorf("%w: property %d", shared.ErrNotFound, id)
	}
	return env.Accommodation, nil
}

// AddProperty lists a new property as a multipart form, attaching the photo when PhotoPath is set.
func (c *Client) AddProperty(ctx context.Context, p models.NewProperty) (*models.Accommodation, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", p.Name},
		{"description", p.Description},
		{"type", p.Type},
		{"pricePerNight", strconv.FormatFloat(p.PricePerNight, 'f', -1, 64)},
		{"availability", "true"},
		{"location", p.Location},
		{"latitude", strconv.FormatFloat(p.Latitude, 'f', -1, 64)},
		{"longitude", strconv.FormatFloat(p.Longitude, 'f', -1, 64)},
		{"amenities", strings.Join(p.Amenities, ",")},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}

	if p.PhotoPath != "" {
		if err := attachFile(w, "photo", p.PhotoPath); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	env, err := c.envelope(ctx, request{
		method:      http.MethodPost,
		path:        "/properties/add",
		raw:         &buf,
		contentType: w.FormDataContentType(),
		auth:        true,
	})
	if err != nil {
		return nil, err
	}
	return env.Accommodation, nil
}

// DeleteProperty removes a property owned by the current host.
func (c *Client) DeleteProperty(ctx context.Context, id int64) error {
	_, err := c.envelope(ctx, request{method: http.MethodDelete, path: idPath("/properties/delete/%s", id), auth: true})
	return err
}

func (c *Client) accommodationList(ctx context.Context, r request) ([]models.Accommodation, error) {
	env, err := c.envelope(ctx, r)
	if err != nil {
		return nil, err
	}
	if env.AccommodationList == nil {
		return []models.Accommodation{}, nil
	}
	return env.AccommodationList, nil
}

func attachFile(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s: %w", path, err)
	}
	return nil
}
