package domain

// FieldCatalogVersion tags the closed enumeration of mapping targets.
// Bump when fields are added so stored mappings can be audited against
// the catalog that accepted them.
const FieldCatalogVersion = "2026.1"

// FieldGroup collects the mapping targets of one operational domain.
type FieldGroup struct {
	Domain string   `json:"domain"`
	Label  string   `json:"label"`
	Fields []string `json:"fields"`
}

// FieldCatalog is the closed, versioned enumeration of canonical
// incident timestamp fields, grouped by operational domain. Any
// mapping target outside this catalog is rejected.
var FieldCatalog = []FieldGroup{
	{
		Domain: "fire_ops",
		Label:  "Fire Operations",
		Fields: []string{
			"time_command_established",
			"time_command_terminated",
			"time_water_on_fire",
			"time_fire_under_control",
			"time_primary_search_complete",
			"time_secondary_search_complete",
			"time_loss_stopped",
		},
	},
	{
		Domain: "ems",
		Label:  "EMS",
		Fields: []string{
			"time_patient_contact",
			"time_patient_transferred",
			"time_transport_started",
		},
	},
	{
		Domain: "local_ops",
		Label:  "Local Operations",
		Fields: []string{
			"time_utilities_secured",
			"time_all_clear",
			"time_overhaul_complete",
		},
	},
	{
		Domain: "hazmat",
		Label:  "Hazmat",
		Fields: []string{
			"time_hazmat_identified",
			"time_hazmat_contained",
			"time_decon_complete",
		},
	},
	{
		Domain: "rescue",
		Label:  "Rescue",
		Fields: []string{
			"time_extrication_started",
			"time_extrication_complete",
			"time_victim_located",
		},
	},
	{
		Domain: "wildland",
		Label:  "Wildland",
		Fields: []string{
			"time_fire_contained",
			"time_fire_controlled",
			"time_mop_up_complete",
		},
	},
}

var knownFields = buildKnownFields()

func buildKnownFields() map[string]bool {
	m := make(map[string]bool)
	for _, group := range FieldCatalog {
		for _, f := range group.Fields {
			m[f] = true
		}
	}
	return m
}

// KnownField reports whether name is a valid mapping target.
func KnownField(name string) bool {
	return knownFields[name]
}

// KnownFieldNames returns every catalog field, group order preserved.
func KnownFieldNames() []string {
	names := make([]string, 0, len(knownFields))
	for _, group := range FieldCatalog {
		names = append(names, group.Fields...)
	}
	return names
}
