package interfaces

type AdminRepository interface {
	Add(owner, admin string) error
	Remove(owner, admin string) (bool, error)
	IsAdmin(owner, admin string) (bool, error)
	List(owner string) ([]string, error)
}
