// internal/matching/instance.go
package matching

import (
	"strings"

	"assignment-workers/internal/common/errors"
)

const (
	groupSeparator = ";"
	nameSeparator  = ","
)

// MatchInstance is one input line: customers and products in input order.
// Row indices of the cost matrix follow Products, columns follow Customers.
type MatchInstance struct {
	Customers []Profile
	Products  []Profile
}

// ParseLine splits "c1,c2;p1,p2" into a MatchInstance. Names are taken
// verbatim, without trimming. lineNumber is only used for error reporting.
func ParseLine(lineNumber int, line string) (*MatchInstance, error) {
	groups := strings.Split(line, groupSeparator)
	switch {
	case len(groups) < 2:
		return nil, errors.NewMalformedLineError(lineNumber, "missing ';' separator")
	case len(groups) > 2:
		return nil, errors.NewMalformedLineError(lineNumber, "more than one ';' separator")
	case groups[0] == "":
		return nil, errors.NewMalformedLineError(lineNumber, "empty customer group")
	case groups[1] == "":
		return nil, errors.NewMalformedLineError(lineNumber, "empty product group")
	}

	return NewMatchInstance(
		strings.Split(groups[0], nameSeparator),
		strings.Split(groups[1], nameSeparator),
	), nil
}

// NewMatchInstance classifies the given names, keeping their order.
func NewMatchInstance(customers, products []string) *MatchInstance {
	inst := &MatchInstance{
		Customers: make([]Profile, len(customers)),
		Products:  make([]Profile, len(products)),
	}
	for i, name := range customers {
		inst.Customers[i] = Classify(name)
	}
	for i, name := range products {
		inst.Products[i] = Classify(name)
	}
	return inst
}
