package descent

import "strings"

// Changeset records edits to a HOG so they can be replayed into WriteHOG.
type Changeset struct {
	removed map[string]struct{}
	added   []Entry
}

// Remove drops name from the archive, along with any pending addition of
// the same name.
func (c *Changeset) Remove(name string) {
	if c.removed == nil {
		c.removed = make(map[string]struct{})
	}
	c.removed[strings.ToLower(name)] = struct{}{}

	for i, a := range c.added {
		if strings.EqualFold(a.Name, name) {
			c.added = append(c.added[:i], c.added[i+1:]...)
			break
		}
	}
}

// Add queues an entry to append. It replaces any entry of the same name.
func (c *Changeset) Add(e Entry) {
	for i, a := range c.added {
		if strings.EqualFold(a.Name, e.Name) {
			c.added[i] = e
			return
		}
	}
	c.added = append(c.added, e)
}

func (c *Changeset) Empty() bool {
	return len(c.removed) == 0 && len(c.added) == 0
}

// Apply returns the entries that survive the changeset followed by the
// added entries. Empty entries are dropped.
func (c *Changeset) Apply(entries []Entry) []Entry {
	replaced := make(map[string]struct{}, len(c.added))
	for _, a := range c.added {
		replaced[strings.ToLower(a.Name)] = struct{}{}
	}

	result := make([]Entry, 0, len(entries)+len(c.added))
	for _, e := range entries {
		key := strings.ToLower(e.Name)
		if _, ok := c.removed[key]; ok {
			continue
		}
		if _, ok := replaced[key]; ok {
			continue
		}
		if len(e.Bytes) == 0 {
			continue
		}
		result = append(result, Entry{Name: e.Name, Bytes: e.Bytes})
	}
	for _, a := range c.added {
		if len(a.Bytes) == 0 {
			continue
		}
		result = append(result, a)
	}
	return result
}
