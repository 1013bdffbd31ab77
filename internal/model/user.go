package model

// User 管理员账号，整个系统最多存在一个
type User struct {
	BaseModel
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:100;not null" json:"-"` // bcrypt 哈希
}

func (User) TableName() string {
	return "users"
}
