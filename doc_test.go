package shelterapi_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"

	"github.com/ambiyansyah-risyal/shelterapi"
)

func ExampleURLWithParams() {
	limit := 5
	var offset *int

	fmt.Println(shelterapi.URLWithParams("/arcgis/shelters", shelterapi.Params{
		{Key: "longitude", Value: 21.01},
		{Key: "latitude", Value: 52.23},
		{Key: "offset", Value: offset},
		{Key: "limit", Value: &limit},
	}))
	fmt.Println(shelterapi.URLWithParams("/arcgis/shelters", shelterapi.Params{{Key: "offset", Value: nil}}))
	// Output:
	// /arcgis/shelters?longitude=21.01&latitude=52.23&limit=5
	// /arcgis/shelters
}

func ExampleBuildHeaders() {
	h := shelterapi.BuildHeaders(shelterapi.HeaderSpec{
		CSRFToken:  "abc",
		Additional: []shelterapi.Header{{Name: "Accept-Language", Value: "pl"}},
	})

	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %s\n", name, h.Get(name))
	}
	// Output:
	// Accept: application/json
	// Accept-Language: pl
	// Content-Type: application/json
	// X-Csrftoken: abc
}

func ExampleWrap() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success": false, "error": {"message": "Range must be less than 1000km"}}`)
	}))
	defer server.Close()

	env := shelterapi.Wrap[[]shelterapi.Shelter](http.Get(server.URL))

	fmt.Println(env.Success)
	fmt.Println(env.ErrorMessage)
	// Output:
	// false
	// Range must be less than 1000km
}

func ExampleClient_SheltersForPoint() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success": true, "payload": {"payload": [
			{"id": 7, "longitude": 21.0, "latitude": 52.2, "distance": 350}
		]}}`)
	}))
	defer server.Close()

	client := shelterapi.New(server.URL)
	env := client.SheltersForPoint(context.Background(), shelterapi.PointQuery{
		Point: shelterapi.Point{Longitude: 21.0, Latitude: 52.2},
	})

	for _, s := range env.Payload {
		fmt.Printf("#%d %s %.0fm\n", s.ID, s.Point(), *s.Distance)
	}
	// Output:
	// #7 21,52.2 350m
}

func ExampleCall() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fmt.Println(r.Method, r.Header.Get("X-CSRFToken"), strings.TrimSpace(string(body)))
		_, _ = io.WriteString(w, `{"success": true, "payload": {"id": 1, "capacity": 10, "occupancy": 3}}`)
	}))
	defer server.Close()

	client := shelterapi.New(server.URL, shelterapi.WithCSRFToken("tok"))
	body, err := shelterapi.JSON(map[string]int{"occupancy": 3})
	if err != nil {
		panic(err)
	}

	env, err := shelterapi.Call[shelterapi.ShelterRecord](context.Background(), client, shelterapi.Request{
		Method: http.MethodPost,
		Path:   "/shelters/api/1",
		Body:   body,
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(env.Payload.Free())
	// Output:
	// POST tok {"occupancy":3}
	// 7
}
