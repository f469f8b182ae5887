// Package signup validates the multi-step partner registration form and
// converts it into the payload and context defaults the dashboard uses.
package signup

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"partner-sync/internal/identity"
	"partner-sync/internal/model"
)

// Step is one page of the signup flow. Progression is blocked until the
// current step validates.
type Step int

const (
	StepAccount Step = iota + 1
	StepBusiness
	StepDetails
)

func (s Step) String() string {
	switch s {
	case StepAccount:
		return "account"
	case StepBusiness:
		return "business"
	case StepDetails:
		return "details"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Account is the first step.
type Account struct {
	OwnerName   string `json:"ownerName" validate:"required,min=2,max=80"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,numeric,len=10"`
	Password    string `json:"password" validate:"required,min=6"`
}

// Business is the second step.
type Business struct {
	BusinessName string         `json:"businessName" validate:"required,max=120"`
	Category     model.Category `json:"category" validate:"required,partner_category"`
	LocationArea string         `json:"locationArea" validate:"required"`
}

// AccommodationDetails is the third step for accommodation partners.
type AccommodationDetails struct {
	RoomsAvailable string `json:"roomsAvailable" validate:"required,numeric"`
	Gender         string `json:"gender" validate:"required,oneof=Male Female Co-living"`
	NoticePeriod   string `json:"noticePeriod" validate:"omitempty,numeric"`
}

// StoreDetails is the third step for every other category.
type StoreDetails struct {
	DeliveryCharge string `json:"deliveryCharge" validate:"omitempty,numeric"`
	TradeType      string `json:"tradeType" validate:"omitempty,oneof=retail wholesale both"`
	StoreType      string `json:"storeType" validate:"omitempty,max=60"`
}

// Form holds every step of a partner registration.
type Form struct {
	Account       Account              `json:"basicDetails"`
	Business      Business             `json:"businessDetails"`
	Accommodation AccommodationDetails `json:"accommodationDetails"`
	Store         StoreDetails         `json:"storeDetails"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so errors line up with form inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("partner_category", func(fl validator.FieldLevel) bool {
		return model.Category(fl.Field().String()).Valid()
	})
	return v
}

// ValidateStep checks one step. It returns model.FieldErrors keyed by the
// field's JSON name, or nil.
func (f *Form) ValidateStep(step Step) error {
	var target any
	switch step {
	case StepAccount:
		target = f.Account
	case StepBusiness:
		target = f.Business
	case StepDetails:
		if f.Business.Category == model.CategoryAccommodation {
			target = f.Accommodation
		} else {
			target = f.Store
		}
	default:
		return model.NewValidationError("step", fmt.Sprintf("unknown step %d", int(step)))
	}
	return fieldErrors(validate.Struct(target))
}

// Validate checks every step in order and stops at the first failing one.
func (f *Form) Validate() (Step, error) {
	for _, step := range []Step{StepAccount, StepBusiness, StepDetails} {
		if err := f.ValidateStep(step); err != nil {
			return step, err
		}
	}
	return 0, nil
}

func fieldErrors(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.NewInternalError(err)
	}
	out := make(model.FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, exists := out[fe.Field()]; !exists {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "numeric":
		return "must be a number"
	case "len":
		return fmt.Sprintf("must be %s digits", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "partner_category":
		return "is not a supported category"
	default:
		return "is invalid"
	}
}

// Defaults lifts the form into the context defaults the merge engine
// falls back to on first load.
func (f *Form) Defaults() model.PartialProfile {
	p := model.NewProfile(f.Business.Category)
	p.OwnerName = strings.TrimSpace(f.Account.OwnerName)
	p.Email = strings.TrimSpace(f.Account.Email)
	p.PhoneNumber = strings.TrimSpace(f.Account.PhoneNumber)
	p.BusinessName = strings.TrimSpace(f.Business.BusinessName)
	p.LocationArea = strings.TrimSpace(f.Business.LocationArea)
	if f.Business.Category == model.CategoryAccommodation {
		p.RoomsAvailable = f.Accommodation.RoomsAvailable
		p.Gender = f.Accommodation.Gender
		p.NoticePeriod = f.Accommodation.NoticePeriod
	} else {
		p.DeliveryCharge = f.Store.DeliveryCharge
		p.TradeType = f.Store.TradeType
		p.StoreType = f.Store.StoreType
	}
	return model.PartialFromProfile(p)
}

// ContextUser is the in-memory partner handed to the dashboard.
func (f *Form) ContextUser() *identity.ContextUser {
	email := strings.TrimSpace(f.Account.Email)
	return &identity.ContextUser{Email: email, BasicDetails: identity.BasicDetails{Email: email}}
}

// Payload is the partner signup request body. The password travels only
// here and never reaches the defaults or the session store.
func (f *Form) Payload() map[string]any {
	details := map[string]any{}
	if f.Business.Category == model.CategoryAccommodation {
		details["roomsAvailable"] = f.Accommodation.RoomsAvailable
		details["gender"] = f.Accommodation.Gender
		details["noticePeriod"] = f.Accommodation.NoticePeriod
	} else {
		details["deliveryCharge"] = f.Store.DeliveryCharge
		details["tradeType"] = f.Store.TradeType
		details["storeType"] = f.Store.StoreType
	}
	return map[string]any{
		"basicDetails": map[string]any{
			"ownerName":   f.Account.OwnerName,
			"email":       f.Account.Email,
			"phoneNumber": f.Account.PhoneNumber,
			"password":    f.Account.Password,
		},
		"businessDetails": map[string]any{
			"businessName": f.Business.BusinessName,
			"serviceType":  string(f.Business.Category),
			"location":     f.Business.LocationArea,
		},
		"categoryDetails": details,
	}
}
