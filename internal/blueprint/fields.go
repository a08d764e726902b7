package blueprint

// FieldsOf returns the field keys of the form the node references, in the
// order the form's schema declares them. A node whose form is missing has no
// fields. The returned slice is freshly allocated on every call.
func FieldsOf(n *Node, forms []Form) []string {
	if n == nil {
		return []string{}
	}
	form, ok := findForm(n, forms)
	if !ok {
		return []string{}
	}
	return form.FieldSchema.Properties.Keys()
}

func findForm(n *Node, forms []Form) (*Form, bool) {
	for i := range forms {
		if forms[i].ID == n.Data.ComponentID {
			return &forms[i], true
		}
	}
	return nil, false
}
