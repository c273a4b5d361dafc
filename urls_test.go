package shelterapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLWithParams(t *testing.T) {
	limit := 5
	var unsetRange *int

	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			name: "nil params",
			want: "/arcgis/shelters",
		},
		{
			name:   "empty params",
			params: Params{},
			want:   "/arcgis/shelters",
		},
		{
			name:   "all unset",
			params: Params{{Key: "offset", Value: nil}, {Key: "range", Value: unsetRange}},
			want:   "/arcgis/shelters",
		},
		{
			name: "keeps insertion order",
			params: Params{
				{Key: "longitude", Value: 21.0122},
				{Key: "latitude", Value: 52.2297},
				{Key: "offset", Value: nil},
				{Key: "limit", Value: &limit},
				{Key: "range", Value: unsetRange},
			},
			want: "/arcgis/shelters?longitude=21.0122&latitude=52.2297&limit=5",
		},
		{
			name:   "escapes values",
			params: Params{{Key: "query", Value: "Plac Defilad 1&2"}, {Key: "a b", Value: "ż"}},
			want:   "/arcgis/shelters?query=Plac+Defilad+1%262&a+b=%C5%BC",
		},
		{
			name:   "stringifies scalars",
			params: Params{{Key: "n", Value: 10}, {Key: "f", Value: 1.5}, {Key: "b", Value: true}, {Key: "s", Value: ""}},
			want:   "/arcgis/shelters?n=10&f=1.5&b=true&s=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, URLWithParams("/arcgis/shelters", tt.params))
		})
	}
}

type meters int

type voivodeship string

type ratio float32

func TestURLWithParamsNamedTypes(t *testing.T) {
	r := meters(5000)

	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{"named int", Params{{Key: "range", Value: meters(5000)}}, "/x?range=5000"},
		{"pointer to named int", Params{{Key: "range", Value: &r}}, "/x?range=5000"},
		{"named string", Params{{Key: "v", Value: voivodeship("mazowieckie")}}, "/x?v=mazowieckie"},
		{"named float", Params{{Key: "q", Value: ratio(0.5)}}, "/x?q=0.5"},
		{"slice", Params{{Key: "ids", Value: []int{1, 2}}}, "/x?ids=%5B1+2%5D"},
		{"stringer", Params{{Key: "p", Value: Point{Longitude: 21, Latitude: 52}}}, "/x?p=21%2C52"},
		{"plain struct", Params{{Key: "p", Value: struct{ A int }{1}}}, "/x?p=%7B1%7D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, URLWithParams("/x", tt.params))
		})
	}
}

func TestURLWithParamsSingleQuestionMark(t *testing.T) {
	got := URLWithParams("https://example.org/x", Params{{Key: "a", Value: 1}, {Key: "b", Value: 2}, {Key: "c", Value: 3}})

	assert.Equal(t, 1, strings.Count(got, "?"))
	for _, key := range []string{"a=", "b=", "c="} {
		assert.Equal(t, 1, strings.Count(got, key), key)
	}
}

func TestURLWithAllParamsKeepsUnset(t *testing.T) {
	var unset *int
	got := URLWithAllParams("/x", Params{{Key: "a", Value: nil}, {Key: "b", Value: unset}, {Key: "c", Value: "1"}})
	assert.Equal(t, "/x?a=&b=&c=1", got)

	assert.Equal(t, "/x", URLWithAllParams("/x", nil))
}
