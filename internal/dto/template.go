package dto

// TemplateOption is one selectable template for a plan, including the
// synthetic "empty" template that applies no exceptions.
type TemplateOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       int    `json:"usage"`
	Events      int    `json:"events"`
}

// EmptyTemplateID marks the synthetic template without exceptions.
const EmptyTemplateID = "empty"
