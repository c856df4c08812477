package storage

// Storage 审计快照的存储后端，返回快照的访问位置
type Storage interface {
	Save(path string, data []byte, contentType string) (string, error)
}
