package navigation

import (
	"errors"
	"fmt"
	"lostfound/internal/common/enum"
	"sync"

	"gopkg.in/yaml.v3"
)

type Link struct {
	Label string `yaml:"label" json:"label"`
	Href  string `yaml:"href" json:"href"`
}

type Menu struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Links []Link `yaml:"links" json:"links"`
}

type menuFile struct {
	Menus []Menu `yaml:"menus"`
}

// LoadMenus parses the navigation YAML. Menu ids must be unique and
// non-empty.
func LoadMenus(data []byte) ([]Menu, error) {
	var file menuFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse navigation: %w", err)
	}
	seen := make(map[string]bool, len(file.Menus))
	for _, m := range file.Menus {
		if m.ID == "" {
			return nil, errors.New("parse navigation: menu without id")
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("parse navigation: duplicate menu %q", m.ID)
		}
		seen[m.ID] = true
	}
	return file.Menus, nil
}

// MenuView is a menu with its current state, as templates render it.
type MenuView struct {
	Menu
	State enum.DropdownStateEnum
}

func (v MenuView) Open() bool {
	return v.State == enum.OPEN
}

// Bar holds the open/closed state of a set of sibling dropdowns. At most
// one is open at a time.
type Bar struct {
	mu    sync.Mutex
	menus []Menu
	open  string
}

func NewBar(menus []Menu) *Bar {
	return &Bar{menus: menus}
}

func (b *Bar) has(id string) bool {
	for _, m := range b.menus {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Click toggles the dropdown and closes its siblings.
func (b *Bar) Click(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.has(id) {
		return
	}
	if b.open == id {
		b.open = ""
		return
	}
	b.open = id
}

// HoverEnter opens the dropdown and closes its siblings.
func (b *Bar) HoverEnter(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.has(id) {
		b.open = id
	}
}

func (b *Bar) HoverLeave(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open == id {
		b.open = ""
	}
}

// OutsideClick closes every dropdown.
func (b *Bar) OutsideClick() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = ""
}

// PanelClick is a click inside an open panel. It is consumed there, so
// nothing changes and the outside closer never sees it.
func (b *Bar) PanelClick(id string) {}

func (b *Bar) State(id string) enum.DropdownStateEnum {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id != "" && b.open == id {
		return enum.OPEN
	}
	return enum.CLOSED
}

func (b *Bar) Views() []MenuView {
	b.mu.Lock()
	defer b.mu.Unlock()
	views := make([]MenuView, 0, len(b.menus))
	for _, m := range b.menus {
		state := enum.CLOSED
		if m.ID == b.open {
			state = enum.OPEN
		}
		views = append(views, MenuView{Menu: m, State: state})
	}
	return views
}
