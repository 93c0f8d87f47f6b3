package validation

import (
	"errors"
	"testing"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct(t *testing.T) {
	tests := []struct {
		name          string
		input         interface{}
		expectedField string
	}{
		{
			name:  "valid favorite",
			input: model.NewFavorite{City: "Berlin", Country: "DE", Latitude: 52.52, Longitude: 13.405},
		},
		{
			name:          "non ascii country",
			input:         model.NewFavorite{City: "Berlin", Country: "ÄÖ"},
			expectedField: "country",
		},
		{
			name:          "latitude range",
			input:         model.FavoriteUpdate{City: "Berlin", Country: "DE", Latitude: -90.1},
			expectedField: "latitude",
		},
		{
			name:          "profile email",
			input:         model.ProfileUpdate{Name: "Ann", Email: "not-an-email"},
			expectedField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.expectedField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve *model.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.expectedField, ve.Field)
		})
	}
}
