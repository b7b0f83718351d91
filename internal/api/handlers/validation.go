package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hoanghai1803/readplan/internal/planner"
)

// validate is shared by all request types. Field names in errors are the
// JSON names.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("date", validateDate)
}

// validateDate accepts YYYY-MM-DD calendar dates.
func validateDate(fl validator.FieldLevel) bool {
	_, err := planner.ParseDate(fl.Field().String())
	return err == nil
}

// validateRequest runs struct validation and flattens the first failure into
// a message suitable for a 400 response.
func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "date":
		return fmt.Errorf("%s must be a YYYY-MM-DD date", fe.Field())
	case "email":
		return fmt.Errorf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Errorf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Errorf("%s must be a book ID", fe.Field())
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}

type registerUserRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
}

type addBookRequest struct {
	Title       string `json:"title" validate:"required,max=300"`
	Author      string `json:"author" validate:"required,max=300"`
	PublishYear int    `json:"publishYear" validate:"required,min=1000,max=9999"`
	PagesTotal  int    `json:"pagesTotal" validate:"required,min=1,max=5000"`
}

// Rating is a pointer so that 0 is distinguishable from absent.
type reviewRequest struct {
	Rating   *int   `json:"rating" validate:"required,min=0,max=5"`
	Feedback string `json:"feedback" validate:"required,min=1,max=3000"`
}

type createPlanRequest struct {
	StartDate string   `json:"startDate" validate:"required,date"`
	EndDate   string   `json:"endDate" validate:"required,date"`
	Books     []string `json:"books" validate:"required,min=1,dive,uuid"`
}

type progressRequest struct {
	Pages int `json:"pages" validate:"required,min=1"`
}
