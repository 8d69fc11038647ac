package criteria

import (
	"github.com/arbiterhq/arbiter/service/dao"
)

// Matches evaluates a single named attribute against the supplied
// parameters.  Parameters with other names are ignored so DAOs can support
// several filterable attributes independently.
func Matches(name, actual string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter.Name != name {
			continue
		}
		switch expect := parameter.Value.(type) {
		case string:
			if actual != expect {
				return false
			}
		case []string:
			matched := false
			for _, candidate := range expect {
				if actual == candidate {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	return true
}
