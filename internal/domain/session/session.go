package session

// UserSession identifies one connected client. Identity is the student ID:
// two sessions carrying the same student ID are the same person, however
// they are connected.
type UserSession struct {
	Username  string `json:"username"`
	StudentID string `json:"studentId"`
	Addr      string `json:"addr"`
}

// Same reports identity equality by student ID alone.
func (u UserSession) Same(other UserSession) bool {
	return u.StudentID == other.StudentID
}
