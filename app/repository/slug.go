package repository

import "gorm.io/gorm"

// slugTaken reports whether another row of model uses slug. exceptID 0
// checks every row.
func slugTaken(db *gorm.DB, model interface{}, slug string, exceptID uint) (bool, error) {
	var count int64
	q := db.Model(model).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}
