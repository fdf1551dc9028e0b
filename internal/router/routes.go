package router

import (
	"net/url"
	"strings"

	"github.com/mmcdole/grimoire/internal/auth"
	"github.com/mmcdole/grimoire/internal/domain"
)

// Route names
const (
	NameLogin        = "login"
	NameHome         = "home"
	NameHouses       = "houses"
	NameHouseDetail  = "house-detail"
	NameSpells       = "spells"
	NameSpellDetail  = "spell-detail"
	NameElixirs      = "elixirs"
	NameElixirDetail = "elixir-detail"
	NameWizards      = "wizards"
)

// Paths that guards redirect to
const (
	LoginPath = auth.LoginPath
	HomePath  = "/"
)

// Route is one entry in the route table. Pattern segments starting with ':'
// capture a parameter.
type Route struct {
	Name         string
	Pattern      string
	RequiresAuth bool
	Role         string
	Kind         domain.Kind
}

// Routes is the application route table.
var Routes = []Route{
	{Name: NameLogin, Pattern: "/login"},
	{Name: NameHome, Pattern: "/", RequiresAuth: true},
	{Name: NameHouses, Pattern: "/houses", RequiresAuth: true, Kind: domain.KindHouses},
	{Name: NameHouseDetail, Pattern: "/houses/:id", RequiresAuth: true, Kind: domain.KindHouses},
	{Name: NameSpells, Pattern: "/spells", RequiresAuth: true, Kind: domain.KindSpells},
	{Name: NameSpellDetail, Pattern: "/spells/:id", RequiresAuth: true, Kind: domain.KindSpells},
	{Name: NameElixirs, Pattern: "/elixirs", RequiresAuth: true, Kind: domain.KindElixirs},
	{Name: NameElixirDetail, Pattern: "/elixirs/:id", RequiresAuth: true, Kind: domain.KindElixirs},
	{Name: NameWizards, Pattern: "/wizards", RequiresAuth: true, Role: auth.RoleAdmin, Kind: domain.KindWizards},
}

// Match is a resolved path.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Param returns a captured parameter, or ""
func (m Match) Param(name string) string {
	return m.Params[name]
}

// IsDetail reports whether the route shows a single record
func (m Match) IsDetail() bool {
	return m.Params["id"] != ""
}

// Resolve matches path against the route table.
func Resolve(path string) (Match, bool) {
	pathSegs := splitPath(path)
	for _, r := range Routes {
		patSegs := splitPath(r.Pattern)
		if len(patSegs) != len(pathSegs) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i, seg := range patSegs {
			if strings.HasPrefix(seg, ":") {
				v, err := url.PathUnescape(pathSegs[i])
				if err != nil || v == "" {
					ok = false
					break
				}
				params[seg[1:]] = v
				continue
			}
			if seg != pathSegs[i] {
				ok = false
				break
			}
		}
		if ok {
			return Match{Route: r, Path: path, Params: params}, true
		}
	}
	return Match{}, false
}

// DetailPath builds the detail route path for a record
func DetailPath(kind domain.Kind, id string) string {
	return "/" + string(kind) + "/" + url.PathEscape(id)
}

// ListPath builds the list route path for a kind
func ListPath(kind domain.Kind) string {
	return "/" + string(kind)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
