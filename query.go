package pomelo

type Order string

const (
	Ascend  Order = "ASC"
	Descend Order = "DESC"
)

type KeyRange struct {
	From, To RK
}

type queryOptions struct {
	order    Order
	keyRange *KeyRange
	prefix   string
}

func (fo *queryOptions) Order(o Order) *queryOptions {
	fo.order = o
	return fo
}

// KeyRange - limits the scan to keys in [from, to], bounds inclusive.
func (fo *queryOptions) KeyRange(from, to RK) *queryOptions {
	fo.keyRange = &KeyRange{From: from, To: to}
	return fo
}

// Module - limits the scan to the records of a single module.
func (fo *queryOptions) Module(m string) *queryOptions {
	fo.prefix = m
	return fo
}

func Q() *queryOptions {
	return &queryOptions{order: Ascend}
}
