package models

import (
	"server/db"
)

func Init() {
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&Album{})
	db.Instance.AutoMigrate(&Photo{})
	db.Instance.AutoMigrate(&Like{})
	db.Instance.AutoMigrate(&Comment{})
	db.Instance.AutoMigrate(&Bookmark{})
	db.Instance.AutoMigrate(&Follow{})
	db.Instance.AutoMigrate(&Activity{})
	db.Instance.AutoMigrate(&AlbumShare{})
}
