package example

type OrganizationType string

const (
	OrganizationTypeMatrix OrganizationType = "matrix"
	OrganizationTypeClient OrganizationType = "client"
)

type OrganizationStatus string

const (
	OrganizationStatusActive OrganizationStatus = "active"
)

type MemberRole string

const (
	MemberRoleOwner MemberRole = "owner"
)

type Organization struct {
	Type   OrganizationType
	Status OrganizationStatus
}

type OrganizationMember struct {
	Role MemberRole
}

func bad() {
	o := &Organization{}
	o.Type = "vendor" // want "enum field Type assigned string literal"

	m := &OrganizationMember{}
	m.Role = "admin" // want "enum field Role assigned string literal"
}

func good() {
	o := &Organization{}
	o.Type = OrganizationTypeClient // OK: using constant
	o.Status = OrganizationStatusActive

	m := &OrganizationMember{}
	m.Role = MemberRoleOwner // OK: using constant
}

func alsoGood() {
	// OK: Variable, not literal
	orgType := OrganizationTypeMatrix
	o := &Organization{Type: orgType}
	_ = o
}
