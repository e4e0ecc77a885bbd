package rides

import (
	"sort"
	"strings"
)

// RouteCount pairs a route with a number of rides
type RouteCount struct {
	Route string `json:"route" table:"route"`
	Rides int    `json:"rides" table:"rides"`
}

// Counter tallies rides per route
type Counter map[string]int

// CountRides sums the rides of every route
func CountRides(rides []Ride) Counter {
	c := make(Counter)
	for _, r := range rides {
		c[r.Route] += r.Rides
	}
	return c
}

// Subtract returns c minus other, keeping only routes whose difference is
// positive
func (c Counter) Subtract(other Counter) Counter {
	out := make(Counter)
	for route, n := range c {
		if d := n - other[route]; d > 0 {
			out[route] = d
		}
	}
	return out
}

// MostCommon returns the n routes with the most rides, largest first. Ties
// are ordered by route. A non-positive n returns every route.
func (c Counter) MostCommon(n int) []RouteCount {
	out := make([]RouteCount, 0, len(c))
	for route, rides := range c {
		out = append(out, RouteCount{Route: route, Rides: rides})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rides != out[j].Rides {
			return out[i].Rides > out[j].Rides
		}
		return out[i].Route < out[j].Route
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// CountRoutes returns the number of distinct routes
func CountRoutes(rides []Ride) int {
	seen := make(map[string]struct{})
	for _, r := range rides {
		seen[r.Route] = struct{}{}
	}
	return len(seen)
}

// RidesOn returns how many people rode route on date. ok is false when the
// file has no entry for that pair.
func RidesOn(rides []Ride, route, date string) (n int, ok bool) {
	for _, r := range rides {
		if r.Route == route && r.Date == date {
			n += r.Rides
			ok = true
		}
	}
	return n, ok
}

// TotalRidesByRoute returns the n busiest routes over the whole file
func TotalRidesByRoute(rides []Ride, n int) []RouteCount {
	return CountRides(rides).MostCommon(n)
}

// InYear keeps the rides dated in year. Dates are MM/DD/YYYY.
func InYear(rides []Ride, year string) []Ride {
	var out []Ride
	for _, r := range rides {
		if Year(r.Date) == year {
			out = append(out, r)
		}
	}
	return out
}

// Year returns the year part of a MM/DD/YYYY date
func Year(date string) string {
	if i := strings.LastIndexByte(date, '/'); i >= 0 {
		return date[i+1:]
	}
	return date
}

// TopIncrease returns the n routes whose yearly total grew the most from one
// year to another. Routes that shrank or stayed flat are left out.
func TopIncrease(rides []Ride, from, to string, n int) []RouteCount {
	before := CountRides(InYear(rides, from))
	after := CountRides(InYear(rides, to))
	return after.Subtract(before).MostCommon(n)
}
