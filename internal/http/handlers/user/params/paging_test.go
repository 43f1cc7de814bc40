package params

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-api/internal/models"
)

func TestPage(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    models.PageRequest
		wantErr string
	}{
		{
			name:  "defaults",
			query: "",
			want:  models.PageRequest{Page: 0, Size: 10, SortField: "id", Direction: models.SortAsc},
		},
		{
			name:  "explicit desc",
			query: "page=2&size=5&sort=username,DESC",
			want:  models.PageRequest{Page: 2, Size: 5, SortField: "username", Direction: models.SortDesc},
		},
		{
			name:  "field only",
			query: "sort=email",
			want:  models.PageRequest{Page: 0, Size: 10, SortField: "email", Direction: models.SortAsc},
		},
		{
			name:  "repeated sort params",
			query: "sort=fullName&sort=desc",
			want:  models.PageRequest{Page: 0, Size: 10, SortField: "fullName", Direction: models.SortDesc},
		},
		{
			name:  "unknown direction falls back to asc",
			query: "sort=id,sideways",
			want:  models.PageRequest{Page: 0, Size: 10, SortField: "id", Direction: models.SortAsc},
		},
		{name: "bad page", query: "page=abc", wantErr: "Invalid page parameter: abc"},
		{name: "bad size", query: "size=x", wantErr: "Invalid size parameter: x"},
		{name: "negative page", query: "page=-1", wantErr: "Page index must not be less than zero"},
		{name: "zero size", query: "size=0", wantErr: "Page size must not be less than one"},
		{name: "size above max", query: "size=2001", wantErr: "Page size must not be greater than 2000"},
		{name: "overflowing size", query: "page=2&size=9223372036854775807", wantErr: "Page size must not be greater than 2000"},
		{name: "unknown sort field", query: "sort=password,asc", wantErr: "Unknown sort field: password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/users?"+tt.query, nil)
			got, err := Page(r)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr)
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
