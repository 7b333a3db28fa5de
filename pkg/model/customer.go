package model

// Customer is a ShipSec customer with their forwarding address and the two
// validation codes issued on enrollment.
type Customer struct {
	ID                int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ShopifyCustomerID string `gorm:"column:shopify_customer_id;unique;not null"`
	CustomerName      string `gorm:"column:customer_name;not null"`
	SimpleCode        string `gorm:"column:simple_code;unique;not null"`
	SignatureCode     string `gorm:"column:signature_code;unique;not null"`
	Email             string `gorm:"column:email;not null"`
	Address1          string `gorm:"column:address1;not null"`
	Address2          string `gorm:"column:address2"`
	City              string `gorm:"column:city;not null"`
	Province          string `gorm:"column:province;not null"`
	Country           string `gorm:"column:country;not null"`
	Zip               string `gorm:"column:zip;not null"`
}

func (Customer) TableName() string {
	return "customers"
}
