package bot

// AdminSet is the immutable administrator allow-list, built once from
// configuration and injected into the handler. Membership is the only
// privilege check in the system.
type AdminSet struct {
	ids map[int64]struct{}
}

func NewAdminSet(ids []int64) AdminSet {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return AdminSet{ids: set}
}

func (s AdminSet) Contains(id int64) bool {
	_, ok := s.ids[id]
	return ok
}
