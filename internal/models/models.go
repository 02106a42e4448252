package models

type Role string

const (
	RoleGuest   Role = "guest"
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanAdd and CanEdit are granted to managers and admins, CanDelete to admins only.
func (r Role) CanAdd() bool    { return r == RoleAdmin || r == RoleManager }
func (r Role) CanEdit() bool   { return r == RoleAdmin || r == RoleManager }
func (r Role) CanDelete() bool { return r == RoleAdmin }

type Product struct {
	ID           int     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"not null"                 json:"name"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Manufacturer string  `json:"manufacturer"`
	Supplier     string  `json:"supplier"`
	Price        float64 `json:"price"`
	Unit         string  `json:"unit"`
	Stock        int     `json:"stock"`
	Discount     int     `json:"discount"`
	Image        string  `json:"image"`
}

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"                                                   json:"id"`
	Username string `gorm:"unique;not null"                                                            json:"username"`
	Password string `gorm:"not null"                                                                   json:"-"`
	Role     Role   `gorm:"not null;check:chk_users_role,role IN ('guest','user','manager','admin')" json:"role"`
}
