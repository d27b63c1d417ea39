package access

import (
	"context"
	"membergate/bizerror"
	"membergate/idgen"
	"membergate/persistence"

	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	levelIdWorker *sonyflake.Sonyflake

	LoadLevelsFunc  = LoadLevels
	CreateLevelFunc = CreateLevel
	UpdateLevelFunc = UpdateLevel
	DeleteLevelFunc = DeleteLevel
)

func init() {
	levelIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
}

// LoadLevels returns all access levels in ordinal order.
func LoadLevels(ctx context.Context) ([]AccessLevel, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	var levels []AccessLevel
	if err := db.Order("ordinal ASC").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// CreateLevel appends a level at the next free ordinal.
func CreateLevel(ctx context.Context, creation *AccessLevelCreation) (*AccessLevel, error) {
	level := AccessLevel{
		ID:             idgen.NextID(levelIdWorker),
		Name:           creation.Name,
		ContractIDs:    IDList(creation.ContractIDs),
		MembershipIDs:  IDList(creation.MembershipIDs),
		ServiceIDs:     IDList(creation.ServiceIDs),
		RedirectTarget: creation.RedirectTarget,
	}
	err := persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		maxOrdinal := struct{ Ordinal int }{}
		if err := tx.Model(&AccessLevel{}).Select("COALESCE(MAX(ordinal), 0) AS ordinal").Scan(&maxOrdinal).Error; err != nil {
			return err
		}
		level.Ordinal = maxOrdinal.Ordinal + 1
		return tx.Create(&level).Error
	})
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func UpdateLevel(ctx context.Context, ordinal int, update *AccessLevelCreation) (*AccessLevel, error) {
	var level AccessLevel
	err := persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&AccessLevel{Ordinal: ordinal}).First(&level).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return bizerror.ErrLevelNotFound
			}
			return err
		}
		level.Name = update.Name
		level.ContractIDs = IDList(update.ContractIDs)
		level.MembershipIDs = IDList(update.MembershipIDs)
		level.ServiceIDs = IDList(update.ServiceIDs)
		level.RedirectTarget = update.RedirectTarget
		return tx.Save(&level).Error
	})
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// DeleteLevel removes the level at ordinal and compacts the ordinals above
// it, so level indexes stay dense and 1-based.
func DeleteLevel(ctx context.Context, ordinal int) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where(&AccessLevel{Ordinal: ordinal}).Delete(&AccessLevel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return bizerror.ErrLevelNotFound
		}
		return tx.Model(&AccessLevel{}).Where("ordinal > ?", ordinal).
			UpdateColumn("ordinal", gorm.Expr("ordinal - 1")).Error
	})
}
