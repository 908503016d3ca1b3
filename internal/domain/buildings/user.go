package buildings

type User struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"column:first_name;size:150;not null" json:"first_name"`
	LastName  string `gorm:"column:last_name;size:150;not null" json:"last_name"`
	Email     string `gorm:"column:email;size:254;not null;uniqueIndex" json:"email"`
	Role      string `gorm:"column:role;size:32;not null" json:"role"`
}

func (User) TableName() string { return "app_user" }
