package database

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/go-while/go-msgboard/internal/models"
)

const query_InsertUser = `INSERT INTO users (username, password, role) VALUES (?, ?, ?)`

// InsertUser inserts a new user row and fills in the generated id.
// Returns ErrUsernameTaken when the username is already present.
func (db *Database) InsertUser(u *models.User) error {
	result, err := retryableExec(db.mainDB, query_InsertUser, u.Username, u.PasswordHash, u.Role)
	if err != nil {
		return translateUserInsertErr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted user id: %w", err)
	}
	u.UserID = id
	return nil
}

// GetUserByUsername returns the user with the given name or ErrNotFound.
func (db *Database) GetUserByUsername(username string) (*models.User, error) {
	query, args, err := sq.Select("userid", "username", "password", "role").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var u models.User
	err = retryableQueryRowScan(db.mainDB, query, args,
		&u.UserID, &u.Username, &u.PasswordHash, &u.Role)
	if err != nil {
		return nil, translateScanErr(err)
	}
	return &u, nil
}

// GetUserByID returns the user with the given id or ErrNotFound.
func (db *Database) GetUserByID(id int64) (*models.User, error) {
	query, args, err := sq.Select("userid", "username", "password", "role").
		From("users").
		Where(sq.Eq{"userid": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var u models.User
	err = retryableQueryRowScan(db.mainDB, query, args,
		&u.UserID, &u.Username, &u.PasswordHash, &u.Role)
	if err != nil {
		return nil, translateScanErr(err)
	}
	return &u, nil
}

// GetAllUsers returns id, name and role for every user. Password hashes
// are not loaded; the listing never needs them.
func (db *Database) GetAllUsers() ([]*models.User, error) {
	query, args, err := sq.Select("userid", "username", "role").
		From("users").
		OrderBy("userid ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build users query: %w", err)
	}

	rows, err := retryableQuery(db.mainDB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UserID, &u.Username, &u.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

const query_DeleteUser = `DELETE FROM users WHERE username = ?`

// DeleteUserByUsername removes a user row. Used by the usermgr CLI only;
// no web route deletes users.
func (db *Database) DeleteUserByUsername(username string) error {
	result, err := retryableExec(db.mainDB, query_DeleteUser, username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

const query_InsertForum = `INSERT INTO forums (title) VALUES (?)`

// InsertForum inserts a forum row and returns the generated id.
func (db *Database) InsertForum(title string) (int64, error) {
	result, err := retryableExec(db.mainDB, query_InsertForum, title)
	if err != nil {
		return 0, fmt.Errorf("failed to insert forum: %w", err)
	}
	return result.LastInsertId()
}

// CountForums returns the number of forum rows.
func (db *Database) CountForums() (int64, error) {
	query, args, err := sq.Select("COUNT(*)").From("forums").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build forum count query: %w", err)
	}

	var count int64
	if err := retryableQueryRowScan(db.mainDB, query, args, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetAllForums returns every forum.
func (db *Database) GetAllForums() ([]*models.Forum, error) {
	query, args, err := sq.Select("id", "title").
		From("forums").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build forums query: %w", err)
	}

	rows, err := retryableQuery(db.mainDB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query forums: %w", err)
	}
	defer rows.Close()

	var forums []*models.Forum
	for rows.Next() {
		var f models.Forum
		if err := rows.Scan(&f.ID, &f.Title); err != nil {
			return nil, fmt.Errorf("failed to scan forum row: %w", err)
		}
		forums = append(forums, &f)
	}
	return forums, rows.Err()
}

// GetForumByID returns the forum with the given id or ErrNotFound.
func (db *Database) GetForumByID(id int64) (*models.Forum, error) {
	query, args, err := sq.Select("id", "title").
		From("forums").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build forum query: %w", err)
	}

	var f models.Forum
	if err := retryableQueryRowScan(db.mainDB, query, args, &f.ID, &f.Title); err != nil {
		return nil, translateScanErr(err)
	}
	return &f, nil
}

const query_InsertMessage = `INSERT INTO messages (forumId, userId, message, timestamp) VALUES (?, ?, ?, ?)`

// InsertMessage inserts a message row and fills in the generated id.
func (db *Database) InsertMessage(m *models.Message) error {
	result, err := retryableExec(db.mainDB, query_InsertMessage,
		m.ForumID, m.UserID, m.Body, m.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted message id: %w", err)
	}
	m.ID = id
	return nil
}

// GetMessagesByForum returns the messages of a forum joined with the
// posting user's name, oldest first (chronological reading order).
func (db *Database) GetMessagesByForum(forumID int64) ([]*models.ForumMessage, error) {
	query, args, err := sq.Select(
		"messages.id", "messages.forumId", "messages.userId",
		"messages.message", "messages.timestamp", "users.username").
		From("messages").
		Join("users ON messages.userId = users.userid").
		Where(sq.Eq{"messages.forumId": forumID}).
		OrderBy("messages.timestamp ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build messages query: %w", err)
	}

	rows, err := retryableQuery(db.mainDB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.ForumMessage
	for rows.Next() {
		var m models.ForumMessage
		if err := rows.Scan(&m.ID, &m.ForumID, &m.UserID, &m.Body, &m.Timestamp, &m.Username); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// CountMessagesByForum returns the number of messages in a forum.
func (db *Database) CountMessagesByForum(forumID int64) (int64, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("messages").
		Where(sq.Eq{"forumId": forumID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build message count query: %w", err)
	}

	var count int64
	if err := retryableQueryRowScan(db.mainDB, query, args, &count); err != nil {
		return 0, err
	}
	return count, nil
}
