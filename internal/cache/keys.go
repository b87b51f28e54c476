package cache

import "fmt"

const keyPrefix = "ltr:"

// TrailTreePattern matches every cached trail tree.
const TrailTreePattern = keyPrefix + "trail:tree:*"

func TrailTreeKey(trailID uint) string {
	return fmt.Sprintf("%strail:tree:%d", keyPrefix, trailID)
}

func QuizKey(quizID uint) string {
	return fmt.Sprintf("%squiz:%d", keyPrefix, quizID)
}
