package bot

// Advance mutates a navigation chain with the next trigger. Revisiting a
// trigger already present truncates the chain back to it, which is how
// pressing a breadcrumb navigates without growing history; anything else is
// appended. Re-advancing with the tail trigger is a no-op.
func Advance(chain []string, trigger string) []string {
	for i, t := range chain {
		if t == trigger {
			out := make([]string, i+1)
			copy(out, chain[:i+1])
			return out
		}
	}
	out := make([]string, len(chain), len(chain)+1)
	copy(out, chain)
	return append(out, trigger)
}
