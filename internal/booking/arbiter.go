package booking

import (
	"gorm.io/datatypes"

	"github.com/roomly/booking-core/internal/model"
)

// Арбитр конфликтов: чистые решения без обращений к хранилищу.
// Все проверки консультативные (read-then-decide); гонку окончательно
// закрывает уникальный индекс в хранилище броней.

// ValidateInterval проверяет порядок границ слота.
func ValidateInterval(start, end datatypes.Time) error {
	if end <= start {
		return ErrInvalidTimeRange
	}
	return nil
}

// Overlaps — пересечение двух полуоткрытых интервалов [aStart, aEnd) и
// [bStart, bEnd): aStart < bEnd && aEnd > bStart. Касание концами
// (aEnd == bStart) пересечением не считается — слоты встык легальны.
func Overlaps(aStart, aEnd, bStart, bEnd datatypes.Time) bool {
	return aStart < bEnd && aEnd > bStart
}

// AdmitSlot решает, можно ли добавить/передвинуть слот candidate при
// существующих слотах той же комнаты на ту же дату. Собственная строка
// кандидата (при update) из existing исключается по ID.
func AdmitSlot(candidate *model.TimeSlot, existing []model.TimeSlot) error {
	if err := ValidateInterval(candidate.StartTime, candidate.EndTime); err != nil {
		return err
	}
	for i := range existing {
		if existing[i].ID == candidate.ID {
			continue
		}
		if Overlaps(candidate.StartTime, candidate.EndTime, existing[i].StartTime, existing[i].EndTime) {
			return ErrSlotOverlap
		}
	}
	return nil
}

// AdmitReservation решает, допустима ли бронь слота.
//
//	slotTaken        — на слоте уже есть активная (не-CANCELLED) бронь;
//	userAlreadyHolds — у пользователя уже есть бронь этого слота (любой статус);
//	capacity         — вместимость комнаты.
func AdmitReservation(teamSize, capacity int, slotTaken, userAlreadyHolds bool) error {
	if teamSize <= 0 {
		return ErrInvalidTeamSize
	}
	if teamSize > capacity {
		return ErrCapacityExceeded
	}
	if slotTaken {
		return ErrSlotTaken
	}
	if userAlreadyHolds {
		return ErrDuplicateReservation
	}
	return nil
}
