package repositories

import (
	"time"

	"clairity-server/db"
	"clairity-server/entities"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) Create(user *entities.User) error {
	return r.db.GetDB().Create(user).Error
}

func (r *userPgRepository) GetByID(id string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) GetAll() ([]entities.User, error) {
	var users []entities.User
	err := r.db.GetDB().Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userPgRepository) Search(query string) ([]entities.User, error) {
	var users []entities.User
	like := "%" + query + "%"
	err := r.db.GetDB().
		Where("name ILIKE ? OR email ILIKE ?", like, like).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *userPgRepository) Count() (int64, error) {
	var count int64
	err := r.db.GetDB().Model(&entities.User{}).Count(&count).Error
	return count, err
}

func (r *userPgRepository) GetSubscribed() ([]entities.User, error) {
	var users []entities.User
	err := r.db.GetDB().Where("alerts = ?", true).Find(&users).Error
	return users, err
}

func (r *userPgRepository) Update(user *entities.User) error {
	user.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return r.db.GetDB().Save(user).Error
}

func (r *userPgRepository) Delete(id string) error {
	return r.db.GetDB().Where("id = ?", id).Delete(&entities.User{}).Error
}
