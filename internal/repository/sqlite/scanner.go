package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanEntry scans a single key-value entry from a database row
func ScanEntry(scanner Scanner) (*Entry, error) {
	entry := &Entry{}
	var updatedAt string

	if err := scanner.Scan(&entry.Key, &entry.Value, &updatedAt); err != nil {
		return nil, err
	}

	t, err := ParseTimeFromDB(updatedAt)
	if err != nil {
		return nil, err
	}
	entry.UpdatedAt = t

	return entry, nil
}

// ScanUser scans a single user from a database row
func ScanUser(scanner Scanner) (*User, error) {
	user := &User{}
	var createdAt string

	err := scanner.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	t, err := ParseTimeFromDB(createdAt)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = t

	return user, nil
}

// ScanSession scans a single session from a database row
func ScanSession(scanner Scanner) (*Session, error) {
	session := &Session{}
	var expiresAt, createdAt string

	if err := scanner.Scan(&session.Token, &session.UserID, &expiresAt, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if session.ExpiresAt, err = ParseTimeFromDB(expiresAt); err != nil {
		return nil, err
	}
	if session.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}

	return session, nil
}

// ScanSessions scans multiple sessions from database rows
func ScanSessions(rows Rows) ([]*Session, error) {
	var sessions []*Session
	for rows.Next() {
		session, err := ScanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
