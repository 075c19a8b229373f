package models

import (
	"log"

	"bitbucket.org/mmdatafocus/calc_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Calculation{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
