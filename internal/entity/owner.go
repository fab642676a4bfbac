package entity

// Owner is the human accountable for a product, invited to meetings alongside
// the lead.
type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (o Owner) Complete() bool {
	return o.Name != "" && o.Email != ""
}
