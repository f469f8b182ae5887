package signup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partner-sync/internal/model"
)

func validForm() Form {
	return Form{
		Account: Account{
			OwnerName:   "Asha Rao",
			Email:       "asha@example.com",
			PhoneNumber: "9876543210",
			Password:    "secret1",
		},
		Business: Business{
			BusinessName: "Green PG",
			Category:     model.CategoryAccommodation,
			LocationArea: "Koramangala",
		},
		Accommodation: AccommodationDetails{RoomsAvailable: "12", Gender: "Male"},
	}
}

func TestValidateStep(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Form)
		step   Step
		want   model.FieldErrors
	}{
		{
			name:   "valid account",
			mutate: func(f *Form) {},
			step:   StepAccount,
		},
		{
			name: "account errors keyed by json name",
			mutate: func(f *Form) {
				f.Account.Email = "not-an-email"
				f.Account.PhoneNumber = "123"
				f.Account.Password = ""
			},
			step: StepAccount,
			want: model.FieldErrors{
				"email":       "must be a valid email address",
				"phoneNumber": "must be 10 digits",
				"password":    "is required",
			},
		},
		{
			name:   "unknown category",
			mutate: func(f *Form) { f.Business.Category = "spa" },
			step:   StepBusiness,
			want:   model.FieldErrors{"category": "is not a supported category"},
		},
		{
			name:   "accommodation details",
			mutate: func(f *Form) { f.Accommodation.Gender = "Any" },
			step:   StepDetails,
			want:   model.FieldErrors{"gender": "must be one of Male, Female, Co-living"},
		},
		{
			name: "store details ignore accommodation fields",
			mutate: func(f *Form) {
				f.Business.Category = model.CategoryWater
				f.Accommodation = AccommodationDetails{}
				f.Store.DeliveryCharge = "free"
			},
			step: StepDetails,
			want: model.FieldErrors{"deliveryCharge": "must be a number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			err := f.ValidateStep(tt.step)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrValidation))
			var fe model.FieldErrors
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.want, fe)
		})
	}
}

func TestValidateStopsAtFirstFailingStep(t *testing.T) {
	f := validForm()
	f.Business.LocationArea = ""
	f.Accommodation.RoomsAvailable = ""

	step, err := f.Validate()
	assert.Equal(t, StepBusiness, step)
	assert.Error(t, err)

	f = validForm()
	step, err = f.Validate()
	assert.NoError(t, err)
	assert.Zero(t, step)
}

func TestUnknownStep(t *testing.T) {
	f := validForm()
	assert.ErrorIs(t, f.ValidateStep(Step(9)), model.ErrValidation)
}

func TestDefaultsAndPayload(t *testing.T) {
	f := validForm()

	d := f.Defaults()
	require.NotNil(t, d.Category)
	assert.Equal(t, model.CategoryAccommodation, *d.Category)
	assert.Equal(t, "Green PG", model.Deref(d.BusinessName))
	assert.Equal(t, "12", model.Deref(d.RoomsAvailable))
	assert.Nil(t, d.DeliveryCharge)

	assert.Equal(t, "asha@example.com", f.ContextUser().Email)

	p := f.Payload()
	assert.Equal(t, "accommodation", p["businessDetails"].(map[string]any)["serviceType"])
	assert.Equal(t, "secret1", p["basicDetails"].(map[string]any)["password"])
}
