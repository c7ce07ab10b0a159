package midisync

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-gate/dsp/gate/param"
)

// firstDefaultCC is the start of the undefined controller range the default
// map occupies, one controller per parameter in ID order.
const firstDefaultCC = 102

// CCMap routes control change numbers to parameters. A map is built before
// listening starts and only read afterwards.
type CCMap struct {
	channel int // -1 listens on every channel
	routes  map[uint8]param.ID
}

// DefaultCCMap maps CC 102 onwards to the parameters in ID order on every
// channel.
func DefaultCCMap() *CCMap {
	m := NewCCMap(-1)
	for i := 0; i < param.Count; i++ {
		m.routes[uint8(firstDefaultCC+i)] = param.ID(i)
	}
	return m
}

// NewCCMap returns an empty map for channel (0-15) or every channel (-1).
func NewCCMap(channel int) *CCMap {
	if channel < -1 || channel > 15 {
		channel = -1
	}
	return &CCMap{channel: channel, routes: map[uint8]param.ID{}}
}

// ParseCCMap reads "name=cc" pairs separated by commas, e.g.
// "depth=1,mix=11", on top of an empty map.
func ParseCCMap(s string, channel int) (*CCMap, error) {
	m := NewCCMap(channel)
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, num, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("midisync: cc mapping %q: want name=cc", field)
		}
		id, err := param.ByName(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("midisync: cc mapping %q: %w", field, err)
		}
		cc, err := strconv.ParseUint(strings.TrimSpace(num), 10, 7)
		if err != nil {
			return nil, fmt.Errorf("midisync: cc mapping %q: %w", field, err)
		}
		m.Map(uint8(cc), id)
	}
	return m, nil
}

// Map routes cc to id, replacing any previous route for cc.
func (m *CCMap) Map(cc uint8, id param.ID) {
	m.routes[cc&0x7F] = id
}

// Lookup returns the parameter routed from cc.
func (m *CCMap) Lookup(cc uint8) (param.ID, bool) {
	id, ok := m.routes[cc]
	return id, ok
}

// Handle applies a control change to store. Values 0..127 span the
// parameter's normalized range. It reports whether msg was consumed.
func (m *CCMap) Handle(msg gomidi.Message, store *param.Store) bool {
	var ch, cc, val uint8
	if !msg.GetControlChange(&ch, &cc, &val) {
		return false
	}
	if m.channel >= 0 && int(ch) != m.channel {
		return false
	}
	id, ok := m.routes[cc]
	if !ok {
		return false
	}
	store.SetNormalized(id, float64(val)/127)
	return true
}

// String lists the routes as "name=cc" sorted by controller.
func (m *CCMap) String() string {
	ccs := make([]int, 0, len(m.routes))
	for cc := range m.routes {
		ccs = append(ccs, int(cc))
	}
	sort.Ints(ccs)

	parts := make([]string, len(ccs))
	for i, cc := range ccs {
		parts[i] = fmt.Sprintf("%s=%d", m.routes[uint8(cc)], cc)
	}
	return strings.Join(parts, ",")
}
