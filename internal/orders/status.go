package orders

type Status string

const (
	StatusCreated   Status = "created"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusCreated, StatusPaid, StatusShipped, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

var validNext = map[Status]map[Status]bool{
	StatusCreated:   {StatusPaid: true, StatusShipped: true, StatusCancelled: true},
	StatusPaid:      {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// CanEditItems reports whether line items may still be added or removed.
func CanEditItems(s Status) bool {
	return s == StatusCreated
}
