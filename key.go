package pomelo

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrKeyInvalid = errors.New("resource key invalid")

const keySeparator = ":"

// maxAddress is the highest account address, used as the upper pivot
// when a scan over a single module runs in descending order.
var maxAddress = func() Address {
	var a Address
	for i := range a {
		a[i] = 0xFF
	}
	return a
}()

// RK is a resource key. Every record in the store is addressed by the
// pair of a module name and an account address, rendered as
// module:0xaddress. A module holds at most one record per account.
type RK struct {
	module string
	addr   Address
}

// NewRK - builds the resource key of module's record under addr.
func NewRK(module string, addr Address) RK {
	return RK{module: module, addr: addr}
}

func (k RK) String() string {
	return k.module + keySeparator + k.addr.String()
}

func (k RK) Module() string {
	return k.module
}

func (k RK) Address() Address {
	return k.addr
}

// Less - orders keys by module name first, then by account address,
// which gives scans a stable per module ordering.
func (k RK) Less(other RK) bool {
	if k.module != other.module {
		return k.module < other.module
	}

	return k.addr.Less(other.addr)
}

func (k RK) validate() error {
	if k.module == "" {
		return errors.Wrap(ErrKeyInvalid, "module name is empty")
	}

	if strings.Contains(k.module, keySeparator) {
		return errors.Wrapf(ErrKeyInvalid, "module name %s contains %s", k.module, keySeparator)
	}

	for _, r := range k.module {
		if r == ' ' || r == '\t' || r == '\n' {
			return errors.Wrapf(ErrKeyInvalid, "module name %q contains whitespace", k.module)
		}
	}

	return nil
}

func byResourceKeys(a, b interface{}) bool {
	return a.(*entry).key.Less(b.(*entry).key)
}
