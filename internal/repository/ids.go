package repository

import "github.com/google/uuid"

// validID id 컬럼이 uuid라서 형식이 틀린 값은 DB에 보내지 않고 "없음"으로 취급
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// validIDs 형식이 맞는 id만 남김
func validIDs(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	return valid
}
