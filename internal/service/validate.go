package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/travel-deals/backend/internal/domain"
	"github.com/travel-deals/backend/internal/media"
)

// NewDeal is the input to DealService.Create. Pointer fields are nil when the
// client did not supply them.
type NewDeal struct {
	Title          string          `form:"title" validate:"required"`
	Description    string          `form:"description" validate:"required"`
	Destination    string          `form:"destination" validate:"required"`
	Category       domain.Category `form:"category" validate:"required,category"`
	Days           *int            `form:"days" validate:"required,gte=1"`
	Price          *float64        `form:"price" validate:"required,gte=0"`
	Date           *time.Time      `form:"date"`
	Guests         *int            `form:"guests" validate:"omitempty,gt=0"`
	SeatsAvailable *int            `form:"seatsAvailable" validate:"omitempty,gt=0"`
	Features       []string        `form:"features"`
	Images         []media.File    `form:"images" validate:"max=4"`
}

// newValidator builds the validator used for deal input. It knows the
// category enum and the Road Trips rule, and reports fields by form name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).Valid()
	})
	v.RegisterStructValidation(roadTripRule, NewDeal{})
	return v
}

// roadTripRule requires date, guests and seatsAvailable for road trips.
func roadTripRule(sl validator.StructLevel) {
	d := sl.Current().Interface().(NewDeal)
	if d.Category != domain.CategoryRoadTrips {
		return
	}
	if d.Date == nil {
		sl.ReportError(d.Date, "date", "Date", "roadtrip", "")
	}
	if d.Guests == nil {
		sl.ReportError(d.Guests, "guests", "Guests", "roadtrip", "")
	}
	if d.SeatsAvailable == nil {
		sl.ReportError(d.SeatsAvailable, "seatsAvailable", "SeatsAvailable", "roadtrip", "")
	}
}

// normalize trims text fields and clears the road-trip-only fields for every
// other category, so those values are never persisted.
func (d NewDeal) normalize() NewDeal {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Destination = strings.TrimSpace(d.Destination)
	d.Category = domain.Category(strings.TrimSpace(string(d.Category)))

	features := make([]string, 0, len(d.Features))
	for _, f := range d.Features {
		if t := strings.TrimSpace(f); t != "" {
			features = append(features, t)
		}
	}
	d.Features = features

	if d.Category != domain.CategoryRoadTrips {
		d.Date = nil
		d.Guests = nil
		d.SeatsAvailable = nil
	}
	return d
}

// validateNewDeal runs the validator and converts the first failure into a
// domain.ErrValidation with a field-level message.
func validateNewDeal(v *validator.Validate, d NewDeal) error {
	err := v.Struct(d)
	if err == nil {
		if GenerateSlug(d.Title) == "" {
			return fmt.Errorf("%w: title must contain at least one letter or digit", domain.ErrValidation)
		}
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("service.validateNewDeal: %w", err)
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, fieldMessage(fieldErrs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "roadtrip":
		return field + " is required for Road Trips"
	case "category":
		names := make([]string, len(domain.Categories))
		for i, c := range domain.Categories {
			names[i] = string(c)
		}
		return "category must be one of: " + strings.Join(names, ", ")
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("you can upload a maximum of %d images", domain.MaxImages)
	default:
		return field + " is invalid"
	}
}
