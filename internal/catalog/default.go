package catalog

import "github.com/manabcodes/bangladesh-election-poll/internal/model"

// Default returns the built-in 2026 Dhaka poll data. Each call returns a fresh copy.
func Default() *Catalog {
	return &Catalog{
		Title: "বাংলাদেশ নির্বাচন জরিপ ২০২৬",
		Constituencies: []model.Constituency{
			{ID: "dhaka-8", Name: "ঢাকা-৮", NameEn: "Dhaka-8"},
			{ID: "dhaka-9", Name: "ঢাকা-৯", NameEn: "Dhaka-9"},
			{ID: "dhaka-15", Name: "ঢাকা-১৫", NameEn: "Dhaka-15"},
		},
		Candidates: map[string][]string{
			"dhaka-8": {
				"মির্জা আব্বাস (বিএনপি)",
				"নাসিরউদ্দিন পাটোয়ারী (এনসিপি)",
				"কেফায়েত উল্লাহ (ইসলামী আন্দোলন)",
				"মেঘনা আলম (গণ অধিকার পরিষদ)",
			},
			"dhaka-9": {
				"হাবিবুর রশিদ হাবিব (বিএনপি)",
				"কবির আহমেদ (জামায়াত)",
				"জাবেদ রাসিন (এনসিপি)",
				"তাসনিম জারা (স্বতন্ত্র)",
				"কাজী আবুল খায়ের (জাতীয় পার্টি)",
				"শাহ ইফতেখার আহসান (ইসলামী আন্দোলন)",
			},
			"dhaka-15": {
				"ড. শফিকুর রহমান (জামায়াত আমীর)",
				"শফিকুল ইসলাম খান (বিএনপি)",
				"শামসুল হক (জাতীয় পার্টি)",
				"এ কে এম শফিকুল ইসলাম (গণফোরাম)",
				"আশফাকুর রহমান (জাসদ)",
				"খান শোয়েব আমান উল্লাহ (জনতার দল)",
			},
		},
		Questions: []model.Question{
			{
				Prompt:  "বাংলাদেশের জাতীয় ফুল কী?",
				Options: []string{"শাপলা", "গোলাপ", "বেলি", "জবা"},
				Correct: 0,
			},
			{
				Prompt:  "বাংলাদেশের রাজধানী কোথায়?",
				Options: []string{"চট্টগ্রাম", "ঢাকা", "সিলেট", "রাজশাহী"},
				Correct: 1,
			},
			{
				Prompt:  "বাংলাদেশের স্বাধীনতা দিবস কবে?",
				Options: []string{"২১শে ফেব্রুয়ারি", "১৬ই ডিসেম্বর", "২৬শে মার্চ", "৭ই মার্চ"},
				Correct: 2,
			},
		},
	}
}
