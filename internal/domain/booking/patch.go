package booking

// Patch is a partial appointment update. Only set pointers are applied;
// the authorization policy inspects Fields() to decide whether the caller
// may apply the whole patch (fail closed, never partial).
type Patch struct {
	Status *Status
	Paid   *bool
	Reason *string
}

const (
	FieldStatus = "status"
	FieldPaid   = "paid"
	FieldReason = "reason"
)

func (p Patch) Fields() []string {
	var fields []string
	if p.Status != nil {
		fields = append(fields, FieldStatus)
	}
	if p.Paid != nil {
		fields = append(fields, FieldPaid)
	}
	if p.Reason != nil {
		fields = append(fields, FieldReason)
	}
	return fields
}

func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.Paid == nil && p.Reason == nil
}
