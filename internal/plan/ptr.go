package plan

// Int returns a pointer to n, for filling optional base fields.
func Int(n int) *int { return &n }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }
