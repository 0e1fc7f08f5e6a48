package handler

import (
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/travel-deals/backend/internal/domain"
	"github.com/travel-deals/backend/internal/media"
	"github.com/travel-deals/backend/internal/service"
)

// multipartMemory is how much of a multipart body is kept in memory before
// file parts spill to temporary files.
const multipartMemory = 32 << 20

// parseDealForm reads a multipart deal submission into a service.NewDeal.
// It only rejects values it cannot parse; required-field and business rules
// are checked by the service. Date, guests and seatsAvailable are only
// parsed for road trips, so junk in those fields is ignored otherwise.
func parseDealForm(r *http.Request) (service.NewDeal, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.NewDeal{}, err
		}
		return service.NewDeal{}, errors.New("request must be a valid multipart form")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := r.MultipartForm
	value := func(key string) string {
		if vs := form.Value[key]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
		return ""
	}

	in := service.NewDeal{
		Title:       value("title"),
		Description: value("description"),
		Destination: value("destination"),
		Category:    domain.Category(value("category")),
		Features:    form.Value["features"],
	}

	var err error
	if in.Days, err = optionalInt(value("days")); err != nil {
		return service.NewDeal{}, errors.New("days must be a whole number")
	}
	if in.Price, err = optionalFloat(value("price")); err != nil {
		return service.NewDeal{}, errors.New("price must be a number")
	}

	if in.Category == domain.CategoryRoadTrips {
		if in.Date, err = optionalDate(value("date")); err != nil {
			return service.NewDeal{}, errors.New("date must be formatted YYYY-MM-DD or RFC 3339")
		}
		if in.Guests, err = optionalInt(value("guests")); err != nil {
			return service.NewDeal{}, errors.New("guests must be a whole number")
		}
		if in.SeatsAvailable, err = optionalInt(value("seatsAvailable")); err != nil {
			return service.NewDeal{}, errors.New("seatsAvailable must be a whole number")
		}
	}

	in.Images, err = readImages(form.File["images"])
	if err != nil {
		return service.NewDeal{}, err
	}
	return in, nil
}

// readImages loads every uploaded image into memory. Empty file inputs sent
// by browsers when nothing was chosen are skipped; a named file with no
// content is an error.
func readImages(headers []*multipart.FileHeader) ([]media.File, error) {
	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size == 0 {
			if fh.Filename == "" {
				continue
			}
			return nil, fmt.Errorf("image %q is empty", fh.Filename)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("read image %q: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read image %q: %w", fh.Filename, err)
		}
		files = append(files, media.File{Name: fh.Filename, Data: data})
	}
	return files, nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.New("not a finite number")
	}
	return &f, nil
}

// optionalDate accepts a calendar date or a full RFC 3339 timestamp.
func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
