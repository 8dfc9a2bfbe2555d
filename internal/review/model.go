package review

import "time"

type Review struct {
	ID        int       `db:"id" json:"id"`
	StadiumID int       `db:"stadium_id" json:"stadium_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Rating    int       `db:"rating" json:"rating" example:"5"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ReviewWithAuthor struct {
	Review
	UserName string `db:"user_name" json:"user_name"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5" example:"4"`
	Content string `json:"content" binding:"max=5000" example:"Great pitch, easy parking."`
}
