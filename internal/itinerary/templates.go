package itinerary

import "github.com/edgard/pondyguide/internal/intent"

type dayTemplate struct {
	day        int
	activities []Activity
	meals      []string
	transport  string
	crowd      string
}

var dayTemplates = []dayTemplate{
	{
		day: 1,
		activities: []Activity{
			{Time: "9:00 AM", Name: "Sri Aurobindo Ashram", DurationMinutes: 90, Location: "Sri Aurobindo Ashram", Category: intent.Devotional},
			{Time: "11:00 AM", Name: "French Quarter walking tour", DurationMinutes: 120, Location: "French Quarter", Category: intent.Culture},
			{Time: "2:00 PM", Name: "Pondicherry Museum", DurationMinutes: 90, Location: "Saint Louis Street", Category: intent.Culture},
			{Time: "5:00 PM", Name: "Promenade Beach sunset", DurationMinutes: 90, Location: "Promenade Beach", Category: intent.Adventure},
		},
		meals:     []string{"Breakfast at Hot Breads", "Lunch at Cafe des Arts", "Dinner at Le Dupleix"},
		transport: "Walk or cycle, the French Quarter is compact",
		crowd:     "Ashram busiest 6-10 AM, Promenade crowded 5-8 PM",
	},
	{
		day: 2,
		activities: []Activity{
			{Time: "8:00 AM", Name: "Paradise Beach boat ride", DurationMinutes: 180, Location: "Chunnambar", Category: intent.Adventure},
			{Time: "1:00 PM", Name: "Auroville exploration", DurationMinutes: 150, Location: "Auroville", Category: intent.Devotional},
			{Time: "4:00 PM", Name: "Scuba diving session", DurationMinutes: 120, Location: "Temple Adventures", Category: intent.Adventure},
		},
		meals:     []string{"Breakfast at the hotel", "Lunch at an Auroville cafe", "Seafood dinner on ECR"},
		transport: "Rent a scooter for the ECR run to Chunnambar and Auroville",
		crowd:     "Paradise Beach fills up by late morning",
	},
	{
		day: 3,
		activities: []Activity{
			{Time: "9:00 AM", Name: "Local market visit", DurationMinutes: 90, Location: "Goubert Market", Category: intent.Food},
			{Time: "11:00 AM", Name: "Cathedral and churches", DurationMinutes: 90, Location: "Mission Street", Category: intent.Devotional},
			{Time: "3:00 PM", Name: "Handicraft shopping", DurationMinutes: 120, Location: "Mission Street", Category: intent.Culture},
			{Time: "7:00 PM", Name: "Traditional dinner", DurationMinutes: 90, Location: "White Town", Category: intent.Food},
		},
		meals:     []string{"Street breakfast at Goubert Market", "Lunch at Surguru", "Traditional Tamil dinner"},
		transport: "Auto rickshaw between the market and Mission Street",
		crowd:     "Markets are busiest before noon",
	},
}
