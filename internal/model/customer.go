package model

// Customer is customer model entity
type Customer struct {
	ID          int64  `json:"id" bson:"_id"`
	FirstName   string `json:"firstName" bson:"firstName"`
	LastName    string `json:"lastName" bson:"lastName"`
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber"`
	Address     string `json:"address" bson:"address"`
}

// IsNew reports whether storage has not assigned an id yet
func (c *Customer) IsNew() bool {
	return c.ID == 0
}

// Apply overwrites every mutable field with values from src, id is kept
func (c *Customer) Apply(src *Customer) {
	c.FirstName = src.FirstName
	c.LastName = src.LastName
	c.Email = src.Email
	c.PhoneNumber = src.PhoneNumber
	c.Address = src.Address
}
