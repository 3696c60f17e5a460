package users

type Repo interface {
	Upsert(user *User) error
	GetByUsername(username string) (*User, error)
	GetByEmail(email string) (*User, error)
	Delete(email string) error
	SetRole(email string, role RoleType) error
	List() ([]*User, error)
	Count() (int, error)
}
