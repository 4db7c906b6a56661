package model

import "time"

// Holiday is a non-working date registered for one calendar year. A year's
// set is looked up only against that year; nothing inherits across years.
type Holiday struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"index:idx_holiday_date_year,unique"`
	Year      int       `gorm:"index:idx_holiday_date_year,unique"`
	Name      string
	CreatedAt time.Time
}
