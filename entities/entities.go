package entities

// All lists every model managed by this service, in migration order.
func All() []any {
	return []any{
		&Video{},
		&Rendition{},
		&Job{},
		&Progress{},
		&AuthToken{},
	}
}
