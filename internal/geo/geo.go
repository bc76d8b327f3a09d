// Package geo resolves client IPs to coarse locations.
package geo

import (
	"net"

	"github.com/oschwald/geoip2-golang"
	"github.com/pkg/errors"
)

// Location is the coarse result of an IP lookup. Fields may be empty when
// the IP is unroutable or not in the database.
type Location struct {
	Country string
	City    string
}

// Resolver looks up the location of an IP address.
type Resolver interface {
	Lookup(ip string) Location
	Close() error
}

// MaxMindResolver resolves locations from a local MaxMind City database.
type MaxMindResolver struct {
	reader *geoip2.Reader
}

// NewMaxMindResolver opens the database at path.
func NewMaxMindResolver(path string) (*MaxMindResolver, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open geoip database")
	}
	return &MaxMindResolver{reader: reader}, nil
}

// Lookup returns the country and city for ip, or an empty Location when the
// IP does not parse or has no record.
func (r *MaxMindResolver) Lookup(ip string) Location {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}
	}

	record, err := r.reader.City(parsed)
	if err != nil {
		return Location{}
	}
	return Location{
		Country: record.Country.IsoCode,
		City:    record.City.Names["en"],
	}
}

// Close closes the database reader.
func (r *MaxMindResolver) Close() error {
	return r.reader.Close()
}

// NoopResolver is used when no GeoIP database is configured.
type NoopResolver struct{}

func (NoopResolver) Lookup(string) Location { return Location{} }
func (NoopResolver) Close() error           { return nil }

// Ensure both resolvers implement the interface
var (
	_ Resolver = (*MaxMindResolver)(nil)
	_ Resolver = NoopResolver{}
)
