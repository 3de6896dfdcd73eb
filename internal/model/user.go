package model

import "time"

// RoleAdmin is the role allowed to use the back office revenue screens and
// the role that receives threshold alerts.
const RoleAdmin = "ADMIN"

// User represents an application user record as stored in the `users`
// table.  Accounts are managed by the auth subsystem; this service only
// reads them to find alert recipients.
//
// Fields:
//  ID        – primary key identifier of the user.
//  Email     – unique email address.
//  Role      – role name (ADMIN, STAFF, ...).
//  IsActive  – whether the account is active.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type User struct {
	ID        uint64    // users.id
	Email     string    // users.email
	Role      string    // users.role
	IsActive  bool      // users.is_active
	CreatedAt time.Time // users.created_at
	UpdatedAt time.Time // users.updated_at
}
