// Package domain defines the persistence models for bean logs and the users
// who own them. These types are mapped with GORM and form the core data
// layer of the bean log application.
package domain

import (
	"time"
)

// BeanLog is the stored form of one purchased coffee bean lot, owned by
// exactly one user.
//
// Fields:
//   - ID: UUID assigned on first persist (char(36)).
//   - Owner: identifier of the owning user; every read and bulk delete
//     filters on it.
//   - ShopName .. Comment: descriptive metadata entered through the form.
//   - PurchaseDate / RoastDate / ExpDate: calendar dates stored as UTC
//     timestamps. Roast and expiry dates are never stored empty.
//   - CreatedAt: set once at first persist.
//   - UpdatedAt: refreshed on every write.
//
// Timestamps are written explicitly by the repo package rather than by GORM
// so that updates can preserve CreatedAt verbatim.
type BeanLog struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	Owner        string    `json:"owner"         gorm:"type:varchar(128);not null;index:idx_beanlog_owner"`
	ShopName     string    `json:"shop_name"     gorm:"type:varchar(120);not null"`
	CountryName  string    `json:"country_name"  gorm:"type:varchar(120);not null"`
	RegionName   string    `json:"region_name"   gorm:"type:varchar(120)"`
	DistrictName string    `json:"district_name" gorm:"type:varchar(120)"`
	Farm         string    `json:"farm"          gorm:"type:varchar(120)"`
	ProductName  string    `json:"product_name"  gorm:"type:varchar(120)"`
	Flavor       string    `json:"flavor"        gorm:"type:varchar(200)"`
	Generation   string    `json:"generation"    gorm:"type:varchar(120)"`
	RoastLevel   string    `json:"roast_level"   gorm:"type:varchar(120);not null"`
	IsBlend      bool      `json:"is_blend"      gorm:"not null;default:false"`
	Price        int       `json:"price"         gorm:"not null;default:0;check:price >= 0"`
	Volume       int       `json:"volume"        gorm:"not null;default:0;check:volume >= 0"`
	Comment      string    `json:"comment"       gorm:"type:text"`
	PurchaseDate time.Time `json:"purchase_date" gorm:"not null"`
	RoastDate    time.Time `json:"roast_date"    gorm:"not null"`
	ExpDate      time.Time `json:"exp_date"      gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"    gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `json:"updated_at"    gorm:"autoUpdateTime:false;index:idx_beanlog_owner_updated"`
}

// TableName returns the database table name for BeanLog.
func (BeanLog) TableName() string { return "bean_logs" }

// User is an identity that can own bean logs. Guest users have no email or
// password and can only be reached through the token issued at creation.
type User struct {
	ID           string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Email        *string   `json:"email"      gorm:"type:varchar(255);uniqueIndex:ux_users_email"`
	PasswordHash string    `json:"-"          gorm:"type:varchar(255)"`
	Anonymous    bool      `json:"anonymous"  gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }
