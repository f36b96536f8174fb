package constant

import "strings"

// RoleName is the closed set of staff roles known to the compensation workflow.
type RoleName string

const (
	RoleAll          RoleName = "semua"
	RolePetugas      RoleName = "petugas"
	RoleBendahara    RoleName = "bendahara"
	RoleDokter       RoleName = "dokter"
	RoleDokterGigi   RoleName = "dokter_gigi"
	RoleParamedis    RoleName = "paramedis"
	RoleNonParamedis RoleName = "non_paramedis"
	RoleManajer      RoleName = "manajer"
	RoleAdmin        RoleName = "admin"
)

var knownRoles = []RoleName{
	RolePetugas,
	RoleBendahara,
	RoleDokter,
	RoleDokterGigi,
	RoleParamedis,
	RoleNonParamedis,
	RoleManajer,
	RoleAdmin,
}

// KnownRoles returns every concrete role, excluding the "semua" selector.
func KnownRoles() []RoleName {
	out := make([]RoleName, len(knownRoles))
	copy(out, knownRoles)
	return out
}

// ParseRoleName accepts "semua" or any known role, case-insensitively.
func ParseRoleName(raw string) (RoleName, bool) {
	name := RoleName(strings.ToLower(strings.TrimSpace(raw)))
	if name == "" || name == RoleAll {
		return RoleAll, true
	}
	for _, r := range knownRoles {
		if r == name {
			return r, true
		}
	}
	return "", false
}

// CanonicalGroup folds roles that are reported together. dokter_gigi is
// reported under dokter in every aggregate statistic.
func (r RoleName) CanonicalGroup() RoleName {
	if r == RoleDokterGigi {
		return RoleDokter
	}
	return r
}

// GroupMembers expands a (possibly canonical) role into the concrete role
// names stored in the roles table. "semua" expands to nil, meaning no filter.
func (r RoleName) GroupMembers() []RoleName {
	switch r {
	case RoleAll, "":
		return nil
	case RoleDokter:
		return []RoleName{RoleDokter, RoleDokterGigi}
	default:
		return []RoleName{r}
	}
}

func (r RoleName) String() string {
	return string(r)
}

// DisplayName is the label used in reports when the roles table has none.
func (r RoleName) DisplayName() string {
	switch r {
	case RolePetugas:
		return "Petugas"
	case RoleBendahara:
		return "Bendahara"
	case RoleDokter:
		return "Dokter"
	case RoleDokterGigi:
		return "Dokter Gigi"
	case RoleParamedis:
		return "Paramedis"
	case RoleNonParamedis:
		return "Non Paramedis"
	case RoleManajer:
		return "Manajer"
	case RoleAdmin:
		return "Admin"
	default:
		return string(r)
	}
}
