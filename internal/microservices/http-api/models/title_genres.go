package models

// explicit join model to match the title_genres migration
type TitleGenre struct {
	TitleID int64 `json:"title_id" gorm:"primaryKey"`
	GenreID int64 `json:"genre_id" gorm:"primaryKey"`
}

func (TitleGenre) TableName() string {
	return "title_genres"
}
