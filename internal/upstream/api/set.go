package api

// Set bundles every typed endpoint client over one bound pipeline client.
// One Set serves one browser session.
type Set struct {
	Auth       *Auth
	Cars       *Cars
	Meta       *Meta
	Home       *Home
	Search     *Search
	Compare    *Compare
	News       *NewsClient
	Orders     *Orders
	Payments   *Payments
	Users      *Users
	Promotions *Promotions
}

// NewSet wires all endpoint clients to the caller.
func NewSet(c Caller) *Set {
	return &Set{
		Auth:       NewAuth(c),
		Cars:       NewCars(c),
		Meta:       NewMeta(c),
		Home:       NewHome(c),
		Search:     NewSearch(c),
		Compare:    NewCompare(c),
		News:       NewNews(c),
		Orders:     NewOrders(c),
		Payments:   NewPayments(c),
		Users:      NewUsers(c),
		Promotions: NewPromotions(c),
	}
}
