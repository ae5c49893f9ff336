package i18n

var englishMessages = map[string]string{
	// navigation and titles
	"dashboard":          "Dashboard",
	"my_learning":        "My Learning",
	"my-learning":        "My Learning",
	"browse":             "Browse Courses",
	"browse-courses":     "Browse Courses",
	"settings":           "Settings",
	"admin_dashboard":    "Admin Dashboard",
	"user_management":    "User Management",
	"course_management":  "Course Management",
	"payment_management": "Payment Management",
	"admin_settings":     "Admin Settings",
	"logout":             "Logout",
	"app_name":           "BK Academy",
	"admin_panel":        "Admin Panel",

	// student screens
	"welcome_back":          "Welcome back, {name}!",
	"learning_journey":      "Let's continue your learning journey.",
	"courses_in_progress":   "Courses in Progress",
	"completed_courses":     "Completed Courses",
	"total_enrolled":        "Total Enrolled",
	"continue_learning":     "Continue Learning",
	"your_courses":          "Your Courses",
	"not_enrolled":          "You are not enrolled in any courses yet.",
	"no_courses_yet":        "You have no courses yet.",
	"start_learning_prompt": "Browse the catalog and start learning today.",
	"by_instructor":         "By {instructor}",
	"lessons":               "Lessons",
	"progress":              "Progress",
	"view_course":           "View Course",
	"settings_tagline":      "Account settings will be available here soon.",

	// admin screens
	"admin_welcome":        "Welcome, Admin!",
	"admin_overview":       "Here is an overview of the platform.",
	"admin_settings_intro": "System and website configuration options will be available here in a future update.",
	"total_users":          "Total Users",
	"total_courses":        "Total Courses",
	"total_sales":          "Total Sales",
	"all_users":            "All Users",
	"all_courses":          "All Courses",
	"name":                 "Name",
	"email":                "Email",
	"role":                 "Role",
	"status":               "Status",
	"title":                "Title",
	"instructor":           "Instructor",
	"price":                "Price",
	"actions":              "Actions",

	// auth forms
	"login_title":            "Welcome Back",
	"login_subtitle":         "Sign in to continue learning.",
	"email_label":            "Email Address",
	"password_label":         "Password",
	"remember_me":            "Remember me",
	"forgot_password":        "Forgot password?",
	"login_button":           "Sign In",
	"or_continue_with":       "Or continue with",
	"login_with_google":      "Sign in with Google",
	"register_now":           "Don't have an account? Register now",
	"register_title":         "Create an Account",
	"register_subtitle":      "Join us and start learning.",
	"full_name_label":        "Full Name",
	"confirm_password_label": "Confirm Password",
	"terms_agreement":        "I agree to the",
	"terms_and_conditions":   "Terms and Conditions",
	"register_button":        "Register",
	"login_now":              "Already have an account? Sign in",
	"registration_success":   "Registration successful! You are now signed in.",

	// validation
	"full_name_required":        "Full name is required.",
	"email_required":            "Email is required.",
	"email_invalid":             "Please enter a valid email address.",
	"password_required":         "Password is required.",
	"password_min_length":       "Password must be at least 8 characters long.",
	"password_strength":         "Password must contain an uppercase letter, a lowercase letter and a number.",
	"confirm_password_required": "Please confirm your password.",
	"passwords_no_match":        "Passwords do not match.",
	"terms_required":            "You must agree to the terms and conditions.",

	// provider errors
	"unknown_error":                                 "Something went wrong. Please try again.",
	"auth/invalid-email":                            "The email address is not valid.",
	"auth/invalid-credential":                       "Invalid email or password.",
	"auth/user-not-found":                           "No account exists for this email.",
	"auth/wrong-password":                           "Incorrect password.",
	"auth/email-already-in-use":                     "An account with this email already exists.",
	"auth/weak-password":                            "The password is too weak.",
	"auth/too-many-requests":                        "Too many attempts. Please try again later.",
	"auth/invalid-oauth-state":                      "The sign-in request expired. Please try again.",
	"auth/federated-signin-failed":                  "Google sign-in failed. Please try again.",
	"auth/operation-not-allowed":                    "This sign-in method is not enabled.",
	"auth/account-exists-with-different-credential": "This email is registered with a different sign-in method.",
}

var bengaliMessages = map[string]string{
	"dashboard":          "ড্যাশবোর্ড",
	"my_learning":        "আমার শিক্ষা",
	"my-learning":        "আমার শিক্ষা",
	"browse":             "কোর্স খুঁজুন",
	"browse-courses":     "কোর্স খুঁজুন",
	"settings":           "সেটিংস",
	"admin_dashboard":    "অ্যাডমিন ড্যাশবোর্ড",
	"user_management":    "ব্যবহারকারী ব্যবস্থাপনা",
	"course_management":  "কোর্স ব্যবস্থাপনা",
	"payment_management": "পেমেন্ট ব্যবস্থাপনা",
	"admin_settings":     "অ্যাডমিন সেটিংস",
	"logout":             "লগআউট",
	"app_name":           "বিকে একাডেমি",
	"admin_panel":        "অ্যাডমিন প্যানেল",

	"welcome_back":          "আবার স্বাগতম, {name}!",
	"learning_journey":      "চলুন আপনার শেখার যাত্রা চালিয়ে যাই।",
	"courses_in_progress":   "চলমান কোর্স",
	"completed_courses":     "সম্পন্ন কোর্স",
	"total_enrolled":        "মোট নথিভুক্ত",
	"continue_learning":     "শেখা চালিয়ে যান",
	"your_courses":          "আপনার কোর্সসমূহ",
	"not_enrolled":          "আপনি এখনও কোনো কোর্সে নথিভুক্ত হননি।",
	"no_courses_yet":        "আপনার এখনও কোনো কোর্স নেই।",
	"start_learning_prompt": "ক্যাটালগ দেখুন এবং আজই শেখা শুরু করুন।",
	"by_instructor":         "{instructor} দ্বারা",
	"lessons":               "পাঠ",
	"progress":              "অগ্রগতি",
	"view_course":           "কোর্স দেখুন",
	"settings_tagline":      "অ্যাকাউন্ট সেটিংস শীঘ্রই এখানে পাওয়া যাবে।",

	"admin_welcome":        "স্বাগতম, অ্যাডমিন!",
	"admin_overview":       "প্ল্যাটফর্মের একটি সংক্ষিপ্ত বিবরণ।",
	"admin_settings_intro": "সিস্টেম এবং ওয়েবসাইট কনফিগারেশন বিকল্পগুলি ভবিষ্যতের আপডেটে এখানে পাওয়া যাবে।",
	"total_users":          "মোট ব্যবহারকারী",
	"total_courses":        "মোট কোর্স",
	"total_sales":          "মোট বিক্রয়",
	"all_users":            "সকল ব্যবহারকারী",
	"all_courses":          "সকল কোর্স",
	"name":                 "নাম",
	"email":                "ইমেইল",
	"role":                 "ভূমিকা",
	"status":               "অবস্থা",
	"title":                "শিরোনাম",
	"instructor":           "প্রশিক্ষক",
	"price":                "মূল্য",
	"actions":              "কার্যক্রম",

	"login_title":            "আবার স্বাগতম",
	"login_subtitle":         "শেখা চালিয়ে যেতে সাইন ইন করুন।",
	"email_label":            "ইমেইল ঠিকানা",
	"password_label":         "পাসওয়ার্ড",
	"remember_me":            "আমাকে মনে রাখুন",
	"forgot_password":        "পাসওয়ার্ড ভুলে গেছেন?",
	"login_button":           "সাইন ইন",
	"or_continue_with":       "অথবা চালিয়ে যান",
	"login_with_google":      "গুগল দিয়ে সাইন ইন করুন",
	"register_now":           "অ্যাকাউন্ট নেই? এখনই নিবন্ধন করুন",
	"register_title":         "অ্যাকাউন্ট তৈরি করুন",
	"register_subtitle":      "আমাদের সাথে যোগ দিন এবং শেখা শুরু করুন।",
	"full_name_label":        "পুরো নাম",
	"confirm_password_label": "পাসওয়ার্ড নিশ্চিত করুন",
	"terms_agreement":        "আমি সম্মত",
	"terms_and_conditions":   "শর্তাবলী",
	"register_button":        "নিবন্ধন",
	"login_now":              "ইতিমধ্যে অ্যাকাউন্ট আছে? সাইন ইন করুন",
	"registration_success":   "নিবন্ধন সফল হয়েছে! আপনি এখন সাইন ইন করেছেন।",

	"full_name_required":        "পুরো নাম আবশ্যক।",
	"email_required":            "ইমেইল আবশ্যক।",
	"email_invalid":             "একটি সঠিক ইমেইল ঠিকানা দিন।",
	"password_required":         "পাসওয়ার্ড আবশ্যক।",
	"password_min_length":       "পাসওয়ার্ড কমপক্ষে ৮ অক্ষরের হতে হবে।",
	"password_strength":         "পাসওয়ার্ডে একটি বড় হাতের অক্ষর, একটি ছোট হাতের অক্ষর এবং একটি সংখ্যা থাকতে হবে।",
	"confirm_password_required": "পাসওয়ার্ড নিশ্চিত করুন।",
	"passwords_no_match":        "পাসওয়ার্ড মেলেনি।",
	"terms_required":            "আপনাকে শর্তাবলীতে সম্মত হতে হবে।",

	"unknown_error":                                 "কিছু ভুল হয়েছে। আবার চেষ্টা করুন।",
	"auth/invalid-email":                            "ইমেইল ঠিকানাটি সঠিক নয়।",
	"auth/invalid-credential":                       "ভুল ইমেইল অথবা পাসওয়ার্ড।",
	"auth/user-not-found":                           "এই ইমেইলের কোনো অ্যাকাউন্ট নেই।",
	"auth/wrong-password":                           "ভুল পাসওয়ার্ড।",
	"auth/email-already-in-use":                     "এই ইমেইল দিয়ে ইতিমধ্যে একটি অ্যাকাউন্ট আছে।",
	"auth/weak-password":                            "পাসওয়ার্ডটি খুব দুর্বল।",
	"auth/too-many-requests":                        "অনেকবার চেষ্টা করা হয়েছে। পরে আবার চেষ্টা করুন।",
	"auth/invalid-oauth-state":                      "সাইন-ইন অনুরোধের মেয়াদ শেষ হয়েছে। আবার চেষ্টা করুন।",
	"auth/federated-signin-failed":                  "গুগল সাইন-ইন ব্যর্থ হয়েছে। আবার চেষ্টা করুন।",
	"auth/operation-not-allowed":                    "এই সাইন-ইন পদ্ধতি চালু নেই।",
	"auth/account-exists-with-different-credential": "এই ইমেইলটি অন্য সাইন-ইন পদ্ধতিতে নিবন্ধিত।",
}
