// Package facts serves the curated diamond-fact stage. The pool is
// pre-authored in Hebrew, so there is no translation and no dedup
// ledger here; facts may repeat.
package facts

import (
	"math/rand"
	"time"
)

// Fact is one curated item from the static pool.
type Fact struct {
	Title   string
	Content string
	Source  string
	Link    string
}

// Partition is one rotating source with its sub-topics. The chosen
// topic seeds the video stage; it does not constrain which fact is
// returned.
type Partition struct {
	Name   string
	URL    string
	Topics []string
}

var partitions = []Partition{
	{
		Name:   "Natural Diamond Council",
		URL:    "https://www.naturaldiamonds.com/journal/",
		Topics: []string{"cullinan diamond history", "hope diamond facts", "famous diamonds timeline"},
	},
	{
		Name:   "Smithsonian",
		URL:    "https://www.si.edu/",
		Topics: []string{"hope diamond smithsonian", "famous gems history", "diamond collection"},
	},
	{
		Name:   "Royal Collection Trust",
		URL:    "https://www.rct.uk/",
		Topics: []string{"crown jewels diamonds", "cullinan diamond story", "royal diamonds history"},
	},
}

var pool = []Fact{
	{
		Title:   "היהלום הכחול המפורסם - Hope Diamond",
		Content: "יהלום התקווה הכחול שוקל 45.52 קראט ונחשב לאחד היהלומים המפורסמים בעולם. הוא מוצג כיום במוזיאון הסמיתסוניאן בוושינגטון ונקרא על שם הנרי פיליפ הופ שרכש אותו בשנת 1839.",
		Source:  "Smithsonian Institution",
		Link:    "https://www.si.edu/spotlight/hope-diamond",
	},
	{
		Title:   "יהלום קוליןנן - הגדול שנמצא אי פעם",
		Content: "יהלום קוליןנן שוקל 3,106 קראט והוא היהלום הגדול ביותר שנמצא אי פעם. הוא התגלה בדרום אפריקה בשנת 1905 וחולק לתשעה יהלומים עיקריים, כאשר הגדול שבהם מוטמע בכתר המלכותי הבריטי.",
		Source:  "Royal Collection Trust",
		Link:    "https://www.rct.uk/collection/themes/exhibitions/diamonds-a-jubilee-celebration",
	},
	{
		Title:   "היהלום הורוד הגדול - The Pink Star",
		Content: "The Pink Star הוא יהלום ורוד נדיר שוקל 59.60 קראט. הוא נמכר במכירה פומבית בשנת 2017 תמורת 71.2 מיליון דולר, שיא עולמי עבור יהלום שנמכר במכירה פומבית.",
		Source:  "Natural Diamond Council",
		Link:    "https://www.naturaldiamonds.com/",
	},
}

// PartitionFor rotates the source partition by day of month. Pure in
// the date so tests pin the calendar.
func PartitionFor(now time.Time) Partition {
	return partitions[now.Day()%len(partitions)]
}

// Pick returns the fact for the day plus the topic used as the next
// stage's search context. The fact itself is uniform over the whole
// pool, independent of the partition.
func Pick(now time.Time, rng *rand.Rand) (Fact, string) {
	partition := PartitionFor(now)
	topic := partition.Topics[rng.Intn(len(partition.Topics))]
	fact := pool[rng.Intn(len(pool))]
	return fact, topic
}
