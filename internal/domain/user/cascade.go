package user

// CascadeAction declares what happens to a foreign key referencing a user when
// that user is deleted.
type CascadeAction string

const (
	CascadeNull   CascadeAction = "null"   // clear the reference
	CascadeDelete CascadeAction = "delete" // delete the referencing row
	CascadeBlock  CascadeAction = "block"  // refuse deletion while references exist
)

// CascadeRule names one foreign key referencing users(id) and its action.
type CascadeRule struct {
	Table  string
	Column string
	Action CascadeAction
}

// CascadeRules is the full ownership policy for principal deletion. The
// repository applies these in order inside a single transaction; adding a new
// table that references users means adding exactly one row here.
var CascadeRules = []CascadeRule{
	{Table: "companies", Column: "billing_contact_id", Action: CascadeBlock},
	{Table: "work_orders", Column: "assigned_user_id", Action: CascadeNull},
	{Table: "work_orders", Column: "created_by", Action: CascadeNull},
	{Table: "equipment", Column: "created_by", Action: CascadeNull},
	{Table: "client_companies", Column: "account_manager_id", Action: CascadeNull},
	{Table: "invitations", Column: "invited_by", Action: CascadeNull},
}
